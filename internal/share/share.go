// Package share turns a list into a WhatsApp click-to-chat link.
package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/shopping"
)

const baseURL = "https://wa.me/"

var (
	ErrMissingFields = errors.New("missing required fields: to, message")
	ErrInvalidPhone  = errors.New("phone number must contain only digits")
	ErrListNotFound  = errors.New("list not found")
)

// ListSource finds lists by id; nil means not found.
type ListSource interface {
	GetList(ctx context.Context, id string) (*model.List, error)
}

// Result is what a share attempt reports back to the caller.
type Result struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	To      string `json:"to,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Sharer struct {
	lists  ListSource
	logger *slog.Logger
}

func NewSharer(lists ListSource, logger *slog.Logger) *Sharer {
	return &Sharer{lists: lists, logger: logger}
}

// Share builds the link for the list. Failures are reported in the Result;
// the returned error is non-nil only when the list could not be read.
func (s *Sharer) Share(ctx context.Context, listID, phone string) (Result, error) {
	l, err := s.lists.GetList(ctx, listID)
	if err != nil {
		return Result{}, fmt.Errorf("get list: %w", err)
	}
	if l == nil {
		return Result{Error: ErrListNotFound.Error()}, nil
	}

	to, err := NormalizePhone(phone)
	if err != nil {
		return Result{Error: err.Error()}, nil
	}

	link, err := BuildURL(to, FormatMessage(*l, shopping.GroupByCategory(*l)))
	if err != nil {
		return Result{Error: err.Error()}, nil
	}

	s.logger.Info("share link generated", "list_id", listID, "to", to)
	return Result{Success: true, URL: link, To: to}, nil
}

// FormatMessage renders the list as plain text: uncategorized items first
// under "General", then each non-empty category in list order.
func FormatMessage(l model.List, groups shopping.Groups) string {
	var b strings.Builder
	b.WriteString("Shopping list: ")
	b.WriteString(l.Name)
	b.WriteString("\n\n")

	for _, g := range groups.NonEmpty() {
		title := "General"
		if g.Category != nil {
			title = g.Category.Name
		}
		b.WriteString("- ")
		b.WriteString(title)
		b.WriteString(":\n")
		for _, item := range g.Items {
			mark := "☐"
			if item.Checked {
				mark = "✓"
			}
			b.WriteString("  ")
			b.WriteString(mark)
			b.WriteString(" ")
			b.WriteString(item.Name)
			b.WriteString(" (")
			b.WriteString(strconv.Itoa(item.Quantity))
			b.WriteString(")\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// NormalizePhone strips a leading '+' and common separators, leaving digits.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	s = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "").Replace(s)
	if s == "" {
		return "", ErrMissingFields
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return "", ErrInvalidPhone
		}
	}
	return s, nil
}

// BuildURL composes https://wa.me/<phone>?text=<message>. Spaces are sent as
// %20, which every WhatsApp client decodes; some render a literal '+'.
func BuildURL(phone, text string) (string, error) {
	if phone == "" || text == "" {
		return "", ErrMissingFields
	}
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return baseURL + phone + "?text=" + escaped, nil
}
