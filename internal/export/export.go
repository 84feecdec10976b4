// Package export renders a list as a downloadable PDF.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/shopping"
)

var ErrListNotFound = errors.New("list not found")

const (
	marginLeft   = 14.0
	pageBreakY   = 250.0
	rowHeight    = 8.0
	titleHeight  = 10.0
	statusWidth  = 22.0
	qtyWidth     = 30.0
	contentWidth = 182.0
)

var neutralHeader = [3]int{100, 100, 100}

// ListSource finds lists by id; nil means not found.
type ListSource interface {
	GetList(ctx context.Context, id string) (*model.List, error)
}

// Result reports the outcome of an export. Data holds the document on success.
type Result struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
	Data     []byte `json:"-"`
}

type Exporter struct {
	lists  ListSource
	logger *slog.Logger
	now    func() time.Time
}

func NewExporter(lists ListSource, logger *slog.Logger) *Exporter {
	return &Exporter{lists: lists, logger: logger, now: time.Now}
}

// Export renders the list. Rendering failures are reported in the Result;
// the returned error is non-nil only when the list could not be read.
func (e *Exporter) Export(ctx context.Context, listID string) (Result, error) {
	l, err := e.lists.GetList(ctx, listID)
	if err != nil {
		return Result{}, fmt.Errorf("get list: %w", err)
	}
	if l == nil {
		return Result{Error: ErrListNotFound.Error()}, nil
	}

	var buf bytes.Buffer
	if err := PDF(&buf, *l, shopping.GroupByCategory(*l), e.now()); err != nil {
		e.logger.Error("render pdf", "list_id", listID, "error", err)
		return Result{Error: err.Error()}, nil
	}
	return Result{Success: true, Filename: Filename(l.Name), Data: buf.Bytes()}, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename returns shopping-list-<name>.pdf with the name lower-cased and
// whitespace runs replaced by dashes.
func Filename(listName string) string {
	slug := whitespace.ReplaceAllString(strings.TrimSpace(listName), "-")
	slug = strings.ToLower(slug)
	if slug == "" {
		slug = "list"
	}
	return "shopping-list-" + slug + ".pdf"
}

// PDF writes the document: a title, the generation time, then one table per
// non-empty bucket with uncategorized items first.
func PDF(w io.Writer, l model.List, groups shopping.Groups, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(marginLeft, 15, marginLeft)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(contentWidth/2, 10, "Shopping list", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth/2, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentWidth, 12, tr("Shopping list: "+l.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(contentWidth, 8, "Generated: "+generatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, g := range groups.NonEmpty() {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
		}

		title := "General items"
		rgb := neutralHeader
		if g.Category != nil {
			title = g.Category.Name
			if r, gr, b, ok := model.ParseHexColor(g.Category.Color); ok {
				rgb = [3]int{int(r), int(gr), int(b)}
			}
		}

		pdf.SetFont("Helvetica", "B", 16)
		if g.Category != nil {
			pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
		}
		pdf.CellFormat(contentWidth, titleHeight, tr(title), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		table(pdf, tr, g.Items, rgb)
		pdf.Ln(titleHeight / 2)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func table(pdf *fpdf.Fpdf, tr func(string) string, items []model.Item, header [3]int) {
	nameWidth := contentWidth - statusWidth - qtyWidth

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(header[0], header[1], header[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(statusWidth, rowHeight, "Status", "", 0, "C", true, 0, "")
	pdf.CellFormat(nameWidth, rowHeight, "Item", "", 0, "L", true, 0, "")
	pdf.CellFormat(qtyWidth, rowHeight, "Quantity", "", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for i, item := range items {
		if i%2 == 1 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		status := "[ ]"
		if item.Checked {
			status = "[x]"
		}
		pdf.CellFormat(statusWidth, rowHeight, status, "", 0, "C", true, 0, "")
		pdf.CellFormat(nameWidth, rowHeight, tr(item.Name), "", 0, "L", true, 0, "")
		pdf.CellFormat(qtyWidth, rowHeight, strconv.Itoa(item.Quantity), "", 1, "R", true, 0, "")
	}
}
