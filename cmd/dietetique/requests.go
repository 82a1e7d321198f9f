package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/client"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/feedback"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/selection"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/sysutil"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/utils"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

const defaultAPI = "http://localhost:8080/api/v1"

type apiFlags struct {
	api     string
	token   string
	verbose bool
}

func (f *apiFlags) client() *client.Client { return client.New(f.api, f.token) }

func requestsCmd() *cobra.Command {
	f := &apiFlags{}
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"req"},
		Short:   "Manage contact requests through the back-office API",
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.api, "api", sysutil.FirstNonEmpty(os.Getenv("DIETETIQUE_API"), defaultAPI), "API base URL (env DIETETIQUE_API)")
	pf.StringVar(&f.token, "token", os.Getenv("DIETETIQUE_TOKEN"), "admin bearer token (env DIETETIQUE_TOKEN)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "print progress notices")

	cmd.AddCommand(
		listRequestsCmd(f), getRequestCmd(f), submitRequestCmd(f),
		statusRequestsCmd(f), archiveRequestsCmd(f), deleteRequestsCmd(f),
	)
	return cmd
}

func listRequestsCmd(f *apiFlags) *cobra.Command {
	var (
		status, search, sortBy, sortOrder string
		page, perPage                     int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contact requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := domain.ListQuery{
				Search:    search,
				Page:      page,
				PerPage:   perPage,
				SortBy:    domain.ParseSortField(sortBy),
				SortOrder: domain.ParseSortOrder(sortOrder),
			}
			if status != "" {
				st, ok := domain.ParseStatus(status)
				if !ok {
					return unknownStatus(status)
				}
				q.Status = st
			}
			p, err := f.client().List(cmd.Context(), q)
			if err != nil {
				return explain(err)
			}
			printPage(cmd, p)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&status, "status", "", "PENDING, IN_PROGRESS, COMPLETED or ARCHIVED")
	fl.StringVarP(&search, "search", "q", "", "match name, email or subject")
	fl.IntVar(&page, "page", 1, "page number")
	fl.IntVar(&perPage, "per-page", domain.DefaultPerPage, "rows per page")
	fl.StringVar(&sortBy, "sort-by", string(domain.SortByCreatedAt), "createdAt, status, fullName or email")
	fl.StringVar(&sortOrder, "sort-order", string(domain.SortDesc), "asc or desc")
	return cmd
}

func getRequestCmd(f *apiFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one contact request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.client().Get(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\t%s\n", r.ID)
			fmt.Fprintf(tw, "Status\t%s\n", r.Status)
			fmt.Fprintf(tw, "From\t%s <%s>\n", r.FullName, r.Email)
			fmt.Fprintf(tw, "Subject\t%s\n", r.Subject)
			fmt.Fprintf(tw, "Created\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(tw, "Updated\t%s\n", r.UpdatedAt.Local().Format("2006-01-02 15:04"))
			for _, a := range r.Attachments {
				fmt.Fprintf(tw, "Attachment\t%s %s\n", a.Filename, a.URL)
			}
			_ = tw.Flush()
			fmt.Fprintf(out, "\n%s\n", r.Message)
			return nil
		},
	}
}

func submitRequestCmd(f *apiFlags) *cobra.Command {
	var (
		in      validation.CreateInput
		attach  []string
		idemKey string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a contact request as the public form does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, a := range attach {
				name, link, ok := strings.Cut(a, "=")
				if !ok {
					return fmt.Errorf("attachment %q: want name=url", a)
				}
				in.Attachments = append(in.Attachments, validation.AttachmentInput{Name: name, URL: link})
			}
			c := f.client()
			b := &feedback.Bridge{Sink: &feedback.WriterSink{W: cmd.OutOrStdout(), Verbose: f.verbose}, Loading: "Sending..."}
			res, err := feedback.Run(cmd.Context(), b, func(ctx context.Context) (domain.Result[domain.ContactRequest], error) {
				return c.Submit(ctx, in, idemKey)
			})
			if err != nil || res.Data == nil {
				return errReported
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Data.ID)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&in.FullName, "name", "", "visitor full name")
	fl.StringVar(&in.Email, "email", "", "visitor email")
	fl.StringVar(&in.Subject, "subject", "", "subject")
	fl.StringVar(&in.Message, "message", "", "message body")
	fl.StringArrayVar(&attach, "attach", nil, "attachment as name=url, repeatable")
	fl.StringVar(&idemKey, "idempotency-key", "", "replay protection key")
	return cmd
}

// explain adds a hint to authorization failures.
func explain(err error) error {
	if client.IsStatus(err, http.StatusUnauthorized) {
		return fmt.Errorf("%w (pass --token or set DIETETIQUE_TOKEN)", err)
	}
	return err
}

func printPage(cmd *cobra.Command, p domain.Page) {
	out := cmd.OutOrStdout()
	if len(p.Items) == 0 {
		fmt.Fprintln(out, "no contact requests")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tNAME\tEMAIL\tSUBJECT")
	for _, r := range p.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Status, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.FullName, r.Email, r.Subject)
	}
	_ = tw.Flush()
	pg := p.Pagination
	fmt.Fprintf(out, "page %d/%d, %d total\n", pg.Page, pg.PageCount, pg.Total)
}

func statusRequestsCmd(f *apiFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status <status> <id>...",
		Short: "Change the status of one or more requests",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok := domain.ParseStatus(args[0])
			if !ok {
				return unknownStatus(args[0])
			}
			sel, err := pick(args[1:])
			if err != nil {
				return err
			}
			c := f.client()
			if sel.Len() == 1 {
				return mutateSelection(cmd, f, sel, func(ctx context.Context, ids []string) (domain.Result[domain.ContactRequest], error) {
					return c.UpdateStatus(ctx, ids[0], st)
				})
			}
			return mutateSelection(cmd, f, sel, func(ctx context.Context, ids []string) (domain.Result[domain.BulkOutcome], error) {
				return c.BulkUpdateStatus(ctx, ids, st)
			})
		},
	}
}

func archiveRequestsCmd(f *apiFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>...",
		Short: "Archive one or more requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := pick(args)
			if err != nil {
				return err
			}
			c := f.client()
			if sel.Len() == 1 {
				return mutateSelection(cmd, f, sel, func(ctx context.Context, ids []string) (domain.Result[domain.ContactRequest], error) {
					return c.Archive(ctx, ids[0])
				})
			}
			return mutateSelection(cmd, f, sel, c.BulkArchive)
		},
	}
}

func deleteRequestsCmd(f *apiFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete archived requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := pick(args)
			if err != nil {
				return err
			}
			c := f.client()
			if sel.Len() == 1 {
				return mutateSelection(cmd, f, sel, func(ctx context.Context, ids []string) (domain.Result[domain.ContactRequest], error) {
					return c.Delete(ctx, ids[0])
				})
			}
			return mutateSelection(cmd, f, sel, c.BulkDelete)
		},
	}
}

func unknownStatus(v string) error {
	names := make([]string, len(domain.Statuses))
	for i, st := range domain.Statuses {
		names[i] = st.String()
	}
	return fmt.Errorf("unknown status %q, want one of %s", v, strings.Join(names, ", "))
}

// pick builds the selection from command line ids, "a,b" and "a b" alike.
func pick(args []string) (*selection.Selection, error) {
	sel := &selection.Selection{}
	for _, id := range utils.SplitIDs(args...) {
		if !sel.IsSelected(id) {
			sel.Toggle(id)
		}
	}
	if sel.Len() == 0 {
		return nil, errors.New("no request id given")
	}
	return sel, nil
}

// mutateSelection runs op over the selected ids with progress reported on
// stdout. The selection is locked while op runs and the ids are released
// once it succeeds.
func mutateSelection[T any](cmd *cobra.Command, f *apiFlags, sel *selection.Selection, op func(context.Context, []string) (domain.Result[T], error)) error {
	ids := sel.IDs()
	sel.SetPending(true)
	defer sel.SetPending(false)

	b := &feedback.Bridge{Sink: &feedback.WriterSink{W: cmd.OutOrStdout(), Verbose: f.verbose}}
	res, err := feedback.Run(cmd.Context(), b, func(ctx context.Context) (domain.Result[T], error) {
		return op(ctx, ids)
	})
	if err != nil || !res.OK() {
		return errReported
	}
	sel.ClearItems(ids...)
	return nil
}
