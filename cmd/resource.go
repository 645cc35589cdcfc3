package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lustre-atelier/backoffice/internal/app"
	"github.com/lustre-atelier/backoffice/internal/config"
	"github.com/lustre-atelier/backoffice/internal/remote"
	"github.com/lustre-atelier/backoffice/internal/resource"
	"github.com/lustre-atelier/backoffice/internal/store"
	"github.com/lustre-atelier/backoffice/internal/utils"
)

// resourceCmd builds the command group of one resource kind.
type resourceCmd[T resource.Resource] struct {
	kind   resource.Kind
	store  func(*app.Session) *store.Store[T]
	header []string
	row    func(T) []string
	extra  []func(resourceCmd[T]) *cobra.Command
}

// listOutput is the JSON/YAML shape of a listing.
type listOutput[T any] struct {
	Items       []T `json:"items"`
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

func (rc resourceCmd[T]) command() *cobra.Command {
	command := &cobra.Command{
		Use:   rc.kind.Plural,
		Short: fmt.Sprintf("Manage %s", rc.kind.Plural),
	}
	command.AddCommand(rc.listCmd(), rc.getCmd(), rc.createCmd(), rc.updateCmd(), rc.deleteCmd(), rc.statusCmd())
	for _, extra := range rc.extra {
		command.AddCommand(extra(rc))
	}
	return command
}

// run opens the Env, runs fn and renders the notifications fn produced.
// The interactive shell renders notifications as they come, so they are not printed here.
func run(cmd *cobra.Command, fn func(env *Env) error) error {
	env, err := OpenEnv(cmd)
	if err != nil {
		return err
	}
	if !env.Interactive {
		defer printToasts(cmd.ErrOrStderr(), env.Session.Feedback)
	}
	return fn(env)
}

func (rc resourceCmd[T]) listCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", rc.kind.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(env *Env) error {
				page, _ := cmd.Flags().GetInt("page")
				search, _ := cmd.Flags().GetString("search")
				filters, _ := cmd.Flags().GetStringToString("filter")

				st := rc.store(env.Session)
				if err := st.FetchList(cmd.Context(), remote.ListQuery{Page: page, Search: search, Filters: filters}); err != nil {
					return errors.WithMessage(err, fmt.Sprintf("could not list %s", rc.kind.Plural))
				}
				return rc.renderState(cmd, env, st.Snapshot())
			})
		},
	}
	command.Flags().Int("page", 1, "Page to fetch")
	command.Flags().String("search", "", "Search text")
	command.Flags().StringToString("filter", nil, "Extra filters, e.g. --filter status=draft")
	return command
}

func (rc resourceCmd[T]) getCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show a %s", rc.kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(env *Env) error {
				if raw, _ := cmd.Flags().GetBool("raw"); raw {
					return rc.getRaw(cmd, env, resource.ID(args[0]))
				}

				client := remote.NewClient[T](env.Session.HTTP, rc.kind)
				item, err := client.Get(cmd.Context(), resource.ID(args[0]))
				if err != nil {
					return errors.WithMessage(err, fmt.Sprintf("could not get %s %s", rc.kind.Name, args[0]))
				}
				return rc.renderItem(cmd, env, item)
			})
		},
	}
	command.Flags().Bool("raw", false, "Show every field the API returned, including unknown ones")
	return command
}

// getRaw shows a resource as a loosely typed record, one row per field.
func (rc resourceCmd[T]) getRaw(cmd *cobra.Command, env *Env, id resource.ID) error {
	client := remote.NewClient[resource.Record](env.Session.HTTP, rc.kind)
	record, err := client.Get(cmd.Context(), id)
	if err != nil {
		return errors.WithMessage(err, fmt.Sprintf("could not get %s %s", rc.kind.Name, id))
	}

	rows := [][]string{{"id", record.ID.String()}, {"status", record.Status.String()}}
	for _, key := range utils.SortedKeys(record.Fields) {
		value, err := json.Marshal(record.Get(key))
		if err != nil {
			return err
		}
		rows = append(rows, []string{key, string(value)})
	}
	return render(cmd.OutOrStdout(), env.Config.Output, record, []string{"FIELD", "VALUE"}, rows)
}

func (rc resourceCmd[T]) createCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "create key=value...",
		Short: fmt.Sprintf("Create a %s", rc.kind.Name),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args)
			if err != nil {
				return err
			}

			return run(cmd, func(env *Env) error {
				in := remote.CreateInput{Fields: fields}
				if path, _ := cmd.Flags().GetString("image"); path != "" {
					file, err := os.Open(path)
					if err != nil {
						return errors.WithMessage(err, "could not open image")
					}
					defer file.Close()
					in.Image = &remote.Attachment{Name: filepath.Base(path), Content: file}
				}

				item, err := rc.store(env.Session).Create(cmd.Context(), in)
				if err != nil {
					return errors.WithMessage(err, fmt.Sprintf("could not create %s", rc.kind.Name))
				}
				return rc.renderItem(cmd, env, item)
			})
		},
	}
	command.Flags().String("image", "", "Image file sent along the fields as multipart form data")
	return command
}

func (rc resourceCmd[T]) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> key=value...",
		Short: fmt.Sprintf("Update fields of a %s", rc.kind.Name),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseFields(args[1:])
			if err != nil {
				return err
			}

			return run(cmd, func(env *Env) error {
				item, err := rc.store(env.Session).Update(cmd.Context(), resource.ID(args[0]), patch)
				if err != nil {
					return errors.WithMessage(err, fmt.Sprintf("could not update %s %s", rc.kind.Name, args[0]))
				}
				return rc.renderItem(cmd, env, item)
			})
		},
	}
}

func (rc resourceCmd[T]) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", rc.kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(env *Env) error {
				if err := rc.store(env.Session).Delete(cmd.Context(), resource.ID(args[0])); err != nil {
					return errors.WithMessage(err, fmt.Sprintf("could not delete %s %s", rc.kind.Name, args[0]))
				}
				return nil
			})
		},
	}
}

func (rc resourceCmd[T]) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("status <id> <%s>", rc.kind.StatusNames()),
		Short: fmt.Sprintf("Change the status of a %s", rc.kind.Name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(env *Env) error {
				item, err := rc.store(env.Session).SetStatus(cmd.Context(), resource.ID(args[0]), resource.Status(args[1]))
				if err != nil {
					return errors.WithMessage(err, fmt.Sprintf("could not change status of %s %s", rc.kind.Name, args[0]))
				}
				return rc.renderItem(cmd, env, item)
			})
		},
	}
}

func (rc resourceCmd[T]) renderState(cmd *cobra.Command, env *Env, st store.State[T]) error {
	out := listOutput[T]{
		Items:       st.Items,
		Total:       st.Total,
		CurrentPage: st.CurrentPage,
		TotalPages:  st.TotalPages,
	}
	rows := make([][]string, len(st.Items))
	for i, item := range st.Items {
		rows[i] = rc.row(item)
	}
	if err := render(cmd.OutOrStdout(), env.Config.Output, out, rc.header, rows); err != nil {
		return err
	}
	if env.Config.Output == config.OutputTable {
		fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d %s\n", st.CurrentPage, st.TotalPages, st.Total, rc.kind.Plural)
	}
	return nil
}

func (rc resourceCmd[T]) renderItem(cmd *cobra.Command, env *Env, item T) error {
	return render(cmd.OutOrStdout(), env.Config.Output, item, rc.header, [][]string{rc.row(item)})
}

// parseFields parses key=value arguments. Values that are valid JSON keep their JSON type.
func parseFields(args []string) (resource.Fields, error) {
	fields := make(resource.Fields, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", arg)
		}
		fields[key] = parseValue(value)
	}
	return fields, nil
}

func parseValue(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err == nil {
		return v
	}
	return value
}
