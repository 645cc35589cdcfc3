package testutils

const (
	Uuidv4Regex = "[a-f0-9]{8}-[a-f0-9]{4}-4[a-f0-9]{3}-[89aAbB][a-f0-9]{3}-[a-f0-9]{12}"
	RootUrl     = "http://fakeurl:3001/api/v1/"
	Token       = "ya29.Gl0UBZ3"
)

var (
	LoginUrl  = RootUrl + "auth/login"
	UploadUrl = RootUrl + "media/upload"

	BlogsUrl        = RootUrl + "blogs"
	ProductsUrl     = RootUrl + "products"
	BannersUrl      = RootUrl + "banners"
	AppointmentsUrl = RootUrl + "appointments"
)

// ItemUrl returns the URL of one resource of a collection.
func ItemUrl(collectionUrl, id string) string {
	return collectionUrl + "/" + id
}

// StatusUrl returns the status URL of one resource of a collection.
func StatusUrl(collectionUrl, id string) string {
	return ItemUrl(collectionUrl, id) + "/status"
}
