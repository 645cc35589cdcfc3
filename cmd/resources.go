package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lustre-atelier/backoffice/internal/app"
	"github.com/lustre-atelier/backoffice/internal/remote"
	"github.com/lustre-atelier/backoffice/internal/resource"
	"github.com/lustre-atelier/backoffice/internal/store"
	"github.com/lustre-atelier/backoffice/internal/utils"
)

const dateFormat = "2006-01-02 15:04"

var blogCmd = resourceCmd[resource.Blog]{
	kind:   resource.BlogKind,
	store:  func(s *app.Session) *store.Store[resource.Blog] { return s.Blogs },
	header: []string{"ID", "TITLE", "STATUS", "AUTHOR", "TAGS"},
	row: func(b resource.Blog) []string {
		return []string{b.ID.String(), b.Title, b.Status.String(), b.Author, formatList(b.Tags)}
	},
	extra: []func(resourceCmd[resource.Blog]) *cobra.Command{blogPreviewCmd},
}

var productCmd = resourceCmd[resource.Product]{
	kind:   resource.ProductKind,
	store:  func(s *app.Session) *store.Store[resource.Product] { return s.Products },
	header: []string{"ID", "NAME", "SKU", "PRICE", "CARAT", "STOCK", "STATUS"},
	row: func(p resource.Product) []string {
		price := formatFloat(p.Price)
		if p.SalePrice != nil {
			price = fmt.Sprintf("%s (sale %s)", price, formatFloat(*p.SalePrice))
		}
		return []string{p.ID.String(), p.Name, p.SKU, price, formatFloat(p.TotalCarat()), strconv.Itoa(p.Stock), p.Status.String()}
	},
}

var bannerCmd = resourceCmd[resource.Banner]{
	kind:   resource.BannerKind,
	store:  func(s *app.Session) *store.Store[resource.Banner] { return s.Banners },
	header: []string{"ID", "TITLE", "POSITION", "STATUS", "LIVE"},
	row: func(b resource.Banner) []string {
		return []string{b.ID.String(), b.Title, strconv.Itoa(b.Position), b.Status.String(), strconv.FormatBool(b.Live(time.Now()))}
	},
}

var appointmentCmd = resourceCmd[resource.Appointment]{
	kind:   resource.AppointmentKind,
	store:  func(s *app.Session) *store.Store[resource.Appointment] { return s.Appointments },
	header: []string{"ID", "CUSTOMER", "EMAIL", "DATE", "BUDGET", "STATUS"},
	row: func(a resource.Appointment) []string {
		date := ""
		if d := utils.Deref(a.PreferredDate, time.Time{}); !d.IsZero() {
			date = d.Format(dateFormat)
		}
		return []string{a.ID.String(), a.CustomerName, a.Email, date, formatFloat(a.Budget), a.Status.String()}
	},
}

// NewResourceCmds returns a fresh command group for every resource kind.
func NewResourceCmds() []*cobra.Command {
	return []*cobra.Command{
		blogCmd.command(),
		productCmd.command(),
		bannerCmd.command(),
		appointmentCmd.command(),
	}
}

func blogPreviewCmd(rc resourceCmd[resource.Blog]) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <id>",
		Short: "Render the content of a blog post as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(env *Env) error {
				client := remote.NewClient[resource.Blog](env.Session.HTTP, rc.kind)
				blog, err := client.Get(cmd.Context(), resource.ID(args[0]))
				if err != nil {
					return errors.WithMessage(err, fmt.Sprintf("could not get blog %s", args[0]))
				}
				fmt.Fprint(cmd.OutOrStdout(), blog.ContentHTML())
				return nil
			})
		},
	}
}
