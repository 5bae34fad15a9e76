package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

func newCardCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards and their dependents",
	}
	cmd.AddCommand(newCardCreateCmd(e))
	cmd.AddCommand(newCardShowCmd(e))
	cmd.AddCommand(newCardRenameCmd(e))
	cmd.AddCommand(newCardEditCmd(e))
	cmd.AddCommand(newCardReorderCmd(e))
	cmd.AddCommand(newCardDeleteCmd(e))
	cmd.AddCommand(newCardCommentCmd(e))
	cmd.AddCommand(newCardChecklistCmd(e))
	cmd.AddCommand(newCardAttachCmd(e))
	return cmd
}

func newCardCreateCmd(e *env) *cobra.Command {
	var (
		in               model.CreateCardInput
		description, due string
		priority         string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a card to a list",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseOptionalDate("due", due)
			if err != nil {
				return err
			}
			in.DueDate = d
			in.Description = optionalString(description)
			in.Priority = model.Priority(priority)

			return e.withStore(func(s *store.SQLStore) error {
				c, err := s.CreateCard(cmd.Context(), in)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), c)
			})
		},
	}

	cmd.Flags().StringVar(&in.ListID, "list", "", "List id (required)")
	cmd.Flags().StringVar(&in.Title, "title", "", "Card title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Card description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium, high or critical (default medium)")
	_ = cmd.MarkFlagRequired("list")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// cardDetail is a card with everything attached to it.
type cardDetail struct {
	*model.Card
	Labels      []model.Label         `json:"labels"`
	Assignees   []model.CardAssignee  `json:"assignees"`
	Checklist   []model.ChecklistItem `json:"checklist"`
	Comments    []model.Comment       `json:"comments"`
	Attachments []model.Attachment    `json:"attachments"`
	Activity    []model.CardActivity  `json:"activity"`
}

func loadCardDetail(ctx context.Context, s store.Store, id string) (*cardDetail, error) {
	c, err := s.GetCardByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &cardDetail{Card: c}
	if d.Labels, err = s.GetLabelsForCard(ctx, id); err != nil {
		return nil, err
	}
	if d.Assignees, err = s.GetAssigneesForCard(ctx, id); err != nil {
		return nil, err
	}
	if d.Checklist, err = s.GetChecklistItems(ctx, id); err != nil {
		return nil, err
	}
	if d.Comments, err = s.GetComments(ctx, id); err != nil {
		return nil, err
	}
	if d.Attachments, err = s.GetAttachments(ctx, id); err != nil {
		return nil, err
	}
	if d.Activity, err = s.GetCardActivities(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

func newCardShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <card-id>",
		Short: "Print a card with its labels, assignees, checklist, comments and activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				d, err := loadCardDetail(cmd.Context(), s, args[0])
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), d)
			})
		},
	}
}

func newCardRenameCmd(e *env) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <card-id>",
		Short: "Change the title of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				c, err := s.UpdateCardTitle(cmd.Context(), args[0], title)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), c)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title (required)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCardEditCmd(e *env) *cobra.Command {
	var description, status, due, priority string

	cmd := &cobra.Command{
		Use:   "edit <card-id>",
		Short: "Replace the description, status, due date and priority of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseOptionalDate("due", due)
			if err != nil {
				return err
			}
			in := model.UpdateCardDetailsInput{
				Description: optionalString(description),
				Status:      optionalString(status),
				DueDate:     d,
				Priority:    model.Priority(priority),
			}
			return e.withStore(func(s *store.SQLStore) error {
				c, err := s.UpdateCardDetails(cmd.Context(), args[0], in)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), c)
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Description (empty clears it)")
	cmd.Flags().StringVar(&status, "status", "", "Status (empty clears it)")
	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD (empty clears it)")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "low, medium, high or critical")
	return cmd
}

func newCardReorderCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <card-id>=<order>[@<list-id>]...",
		Short: "Write card positions as given, optionally moving cards between lists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseOrderArgs(args, true)
			if err != nil {
				return err
			}
			return e.withStore(func(s *store.SQLStore) error {
				cards, err := s.UpdateCardOrder(cmd.Context(), updates)
				if err != nil {
					return err
				}
				for _, c := range cards {
					if err := writeJSONLine(cmd.OutOrStdout(), c); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newCardDeleteCmd(e *env) *cobra.Command {
	var listID string

	cmd := &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card and renumber its list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				if err := s.DeleteCard(cmd.Context(), listID, args[0]); err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			})
		},
	}

	cmd.Flags().StringVar(&listID, "list", "", "List id (required)")
	_ = cmd.MarkFlagRequired("list")
	return cmd
}

func newCardCommentCmd(e *env) *cobra.Command {
	var user, body string

	cmd := &cobra.Command{
		Use:   "comment <card-id>",
		Short: "Add a comment to a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				c, err := s.AddComment(cmd.Context(), args[0], user, body)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), c)
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Author user id (required)")
	cmd.Flags().StringVar(&body, "body", "", "Comment text (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newCardChecklistCmd(e *env) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "checklist <card-id>",
		Short: "Append a checklist item to a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				item, err := s.AddChecklistItem(cmd.Context(), args[0], text)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), item)
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Item text (required)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newCardAttachCmd(e *env) *cobra.Command {
	var a model.Attachment

	cmd := &cobra.Command{
		Use:   "attach <card-id>",
		Short: "Record an attachment stored elsewhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.CardID = args[0]
			return e.withStore(func(s *store.SQLStore) error {
				out, err := s.AddAttachment(cmd.Context(), a)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.Flags().StringVar(&a.FileName, "name", "", "File name (required)")
	cmd.Flags().StringVar(&a.FileURL, "url", "", "File URL (required)")
	cmd.Flags().StringVar(&a.MimeType, "mime", "", "MIME type")
	cmd.Flags().Int64Var(&a.Size, "size", 0, "Size in bytes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
