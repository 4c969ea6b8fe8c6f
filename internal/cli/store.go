package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/store"
)

// storeCommand manages documents in the configured store.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage documents in the configured store",
		Long: `Manage documents in the store selected by the [store] config section
(file by default; memory, redis, mongo and badger are also available).`,
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

// withStore opens the store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored documents, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				infos, err := st.List(cmd.Context())
				if err != nil {
					return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list documents")
				}
				if len(infos) == 0 {
					printInfo("No stored documents")
					return nil
				}
				fmt.Fprintln(stdout, documentTable(infos))
				return nil
			})
		},
	}
}

func documentTable(infos []store.Info) string {
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.ID, info.Name, humanize.Bytes(uint64(info.Size)), humanize.Time(info.UpdatedAt)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Size", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})
	return t.Render()
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := errors.ValidateDocumentID(id); err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				doc, err := store.LoadDocument(cmd.Context(), st, id)
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = doc.Name + ".json"
				}
				if err := writeDocument(path, doc); err != nil {
					return err
				}
				if path != "-" {
					printSuccess("Fetched %s", StyleHighlight.Render(doc.Name))
					printFile(path)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default <name>.json)")

	return cmd
}

func (c *CLI) storePutCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "put <document>",
		Short: "Store a document under its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				doc.Name = name
			}
			if doc.Name == "" {
				doc.Name = documentName(args[0])
			}
			if err := errors.ValidateName(doc.Name); err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := store.SaveDocument(cmd.Context(), st, doc); err != nil {
					return err
				}
				printSuccess("Stored %s", StyleHighlight.Render(doc.Name))
				printKeyValue("ID", doc.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "store under this name")

	return cmd
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := errors.ValidateDocumentID(id); err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				err := st.Delete(cmd.Context(), id)
				if err != nil {
					if stderrors.Is(err, store.ErrNotFound) {
						return errors.Wrap(errors.ErrCodeDocumentNotFound, err, "document %s", id)
					}
					return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "delete %s", id)
				}
				printSuccess("Deleted %s", id)
				return nil
			})
		},
	}
}
