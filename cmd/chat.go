package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/session"
	"github.com/ziadkadry99/shopassist/internal/support"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the shopping assistant in the terminal",
	Long: `Opens the conversation stored for this machine (or starts a new one) and
lets you pick options and type messages. Run "shopassist session reset" to
start over.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := session.FileStore{Dir: cfg.DataDir}.Get()
	if err != nil {
		return err
	}
	conv, err := a.manager.Open(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range conv.Messages() {
		renderMessage(out, m)
	}
	unsubscribe := conv.Subscribe(func(e chat.Event) {
		switch e.Type {
		case chat.EventMessage:
			if e.Message != nil {
				renderMessage(out, *e.Message)
			}
		case chat.EventNotification:
			if e.Toast != nil {
				fmt.Fprintf(out, "  [%s] %s %s\n", e.Toast.Level, e.Toast.Title, e.Toast.Description)
			}
		}
	})
	defer unsubscribe()

	for {
		items := buildMenu(conv)
		sel := promptui.Select{
			Label: "What next?",
			Items: items,
			Size:  12,
			Templates: &promptui.SelectTemplates{
				Label:    "{{ . }}",
				Active:   "▸ {{ .Label | cyan }}",
				Inactive: "  {{ .Label }}",
				Selected: "  {{ .Label | faint }}",
			},
		}
		idx, _, err := sel.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}

		item := items[idx]
		if item.quit {
			fmt.Fprintf(os.Stderr, "Session %s saved. Run `shopassist chat` to pick up where you left off.\n", id)
			return nil
		}
		if err := item.run(ctx); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
				continue
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

// menuItem is one entry of the terminal picker.
type menuItem struct {
	Label string
	run   func(ctx context.Context) error
	quit  bool
}

// buildMenu derives the choices from the latest bot message and the
// current flow: its options, card actions and a text entry when the flow
// takes free text.
func buildMenu(conv *chat.Conversation) []menuItem {
	var items []menuItem
	state := conv.State()
	last, ok := lastBotMessage(conv.Messages())

	if ok {
		switch last.Type {
		case chat.TypeProductResults:
			for _, p := range last.Products {
				items = append(items,
					menuItem{Label: "Details: " + p.Name, run: func(ctx context.Context) error {
						return conv.ViewProductDetails(ctx, p.ID)
					}},
					menuItem{Label: "Add to cart: " + p.Name, run: func(ctx context.Context) error {
						_, err := conv.AddToCart(ctx, p.ID)
						return err
					}},
				)
			}
		case chat.TypeProductDetail:
			if state.Flow == chat.FlowProductDetail {
				items = append(items,
					menuItem{Label: "Add to cart", run: func(ctx context.Context) error {
						_, err := conv.AddSelectedToCart(ctx)
						return err
					}},
					menuItem{Label: "Back to results", run: conv.BackFromDetail},
				)
			}
		case chat.TypeCartSummary:
			if last.Cart != nil && len(last.Cart.Items) > 0 {
				for _, it := range last.Cart.Items {
					items = append(items,
						menuItem{Label: fmt.Sprintf("Change quantity: %s (%d)", it.Product.Name, it.Quantity), run: func(ctx context.Context) error {
							q, err := promptQuantity(it.Quantity)
							if err != nil {
								return err
							}
							_, err = conv.UpdateCartQuantity(ctx, it.ID, q)
							return err
						}},
						menuItem{Label: "Remove: " + it.Product.Name, run: func(ctx context.Context) error {
							_, err := conv.RemoveFromCart(ctx, it.ID)
							return err
						}},
					)
				}
				items = append(items,
					menuItem{Label: "Continue shopping", run: conv.ContinueShopping},
					menuItem{Label: "Checkout", run: conv.Checkout},
				)
			}
		case chat.TypeSupportEmail:
			if state.Flow == chat.FlowSupportCompose {
				items = append(items,
					menuItem{Label: "Send email", run: func(ctx context.Context) error {
						email, err := promptEmail()
						if err != nil {
							return err
						}
						_, err = conv.SendSupportEmail(ctx, chat.SendRequest{Email: email})
						return err
					}},
					menuItem{Label: "Back", run: conv.BackFromSupport},
				)
			}
		}

		for _, opt := range last.Options {
			items = append(items, menuItem{Label: opt.Label, run: func(ctx context.Context) error {
				return conv.SelectOption(ctx, opt)
			}})
		}
	}

	if state.Flow.AcceptsText() {
		items = append(items, menuItem{Label: "Type a message…", run: func(ctx context.Context) error {
			p := promptui.Prompt{Label: "You"}
			text, err := p.Run()
			if err != nil {
				return err
			}
			return conv.SubmitText(ctx, text)
		}})
	}

	items = append(items,
		menuItem{Label: "Start over", run: conv.Restart},
		menuItem{Label: "Quit", quit: true},
	)
	return items
}

func lastBotMessage(msgs []chat.Message) (chat.Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == chat.SenderBot {
			return msgs[i], true
		}
	}
	return chat.Message{}, false
}

func promptQuantity(current int) (int, error) {
	p := promptui.Prompt{
		Label:   "Quantity (0 removes)",
		Default: strconv.Itoa(current),
		Validate: func(s string) error {
			if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return errors.New("enter a whole number")
			}
			return nil
		},
	}
	s, err := p.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func promptEmail() (string, error) {
	p := promptui.Prompt{
		Label:    "Your email",
		Validate: support.ValidateEmail,
	}
	return p.Run()
}

// renderMessage prints a message and its card as plain text.
func renderMessage(w io.Writer, m chat.Message) {
	if m.Sender == chat.SenderUser {
		fmt.Fprintf(w, "\nyou> %s\n", m.Content)
		return
	}

	fmt.Fprintf(w, "\nbot> %s\n", m.Content)
	switch {
	case len(m.Products) > 0:
		for i, p := range m.Products {
			fmt.Fprintf(w, "  %d. %s  $%.2f  (%.1f★)\n", i+1, p.Name, p.Price, p.Rating)
			if len(p.Specs) > 0 {
				fmt.Fprintf(w, "     %s\n", strings.Join(p.Specs, " · "))
			}
		}
	case m.ProductDetail != nil:
		p := m.ProductDetail
		fmt.Fprintf(w, "  %s\n  $%.2f  (%.1f★)\n", p.Name, p.Price, p.Rating)
		for _, s := range p.Specs {
			fmt.Fprintf(w, "  • %s\n", s)
		}
		if p.Description != "" {
			fmt.Fprintf(w, "  %s\n", p.Description)
		}
		if p.Availability != "" {
			fmt.Fprintf(w, "  Availability: %s\n", p.Availability)
		}
		if p.Warranty != "" {
			fmt.Fprintf(w, "  Warranty: %s\n", p.Warranty)
		}
	case m.Cart != nil:
		for _, it := range m.Cart.Items {
			fmt.Fprintf(w, "  %d × %s  $%.2f\n", it.Quantity, it.Product.Name, it.LineTotal())
		}
		fmt.Fprintf(w, "  Items: %d  Subtotal: $%.2f\n", m.Cart.Count, m.Cart.Subtotal)
	case m.OrderStatus != nil:
		o := m.OrderStatus
		fmt.Fprintf(w, "  Order %s: %s\n  Estimated delivery: %s\n  Last update: %s\n", o.OrderID, o.Status, o.EstimatedDelivery, o.LastUpdate)
		if o.Location != "" {
			fmt.Fprintf(w, "  Location: %s\n", o.Location)
		}
	case m.SupportEmail != nil:
		e := m.SupportEmail
		fmt.Fprintf(w, "  [%s]\n  Subject: %s\n\n", e.IssueLabel, e.Subject)
		for _, line := range strings.Split(e.Body, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
