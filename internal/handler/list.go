package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/shoplist/internal/grocery"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/shopping"
	"github.com/dukerupert/shoplist/internal/websocket"
	"github.com/dukerupert/shoplist/internal/workspace"
)

type ListHandler struct {
	ws       *workspace.Workspace
	hub      Broadcaster
	validate *validator.Validate
	logger   *slog.Logger
}

func NewListHandler(ws *workspace.Workspace, hub Broadcaster, logger *slog.Logger) *ListHandler {
	return &ListHandler{ws: ws, hub: hub, validate: newValidator(), logger: logger}
}

func (h *ListHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type listView struct {
	model.List
	Summary shopping.Summary `json:"summary"`
}

func newListView(l model.List) listView {
	return listView{List: l, Summary: shopping.Summarize(l)}
}

type createListRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type activeListRequest struct {
	ID string `json:"id"`
}

type addItemRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Quantity     int     `json:"quantity"`
	CategoryID   *string `json:"category_id"`
	AutoCategory bool    `json:"auto_category"`
}

type setCategoryRequest struct {
	CategoryID *string `json:"category_id"`
}

type addCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"required,hexcolor"`
}

type groupView struct {
	Key       string       `json:"key"`
	Title     string       `json:"title"`
	Color     string       `json:"color,omitempty"`
	TextColor string       `json:"text_color,omitempty"`
	Items     []model.Item `json:"items"`
}

func (h *ListHandler) Lists(w http.ResponseWriter, r *http.Request) {
	lists := h.ws.Lists()
	views := make([]listView, 0, len(lists))
	for _, l := range lists {
		views = append(views, newListView(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lists":     views,
		"active_id": h.ws.ActiveID(),
	})
}

func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	l, err := h.ws.CreateList(r.Context(), name)
	if err != nil {
		h.logger.Error("create list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create list")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityList, "created", l.ID, nil).ForList(l.ID))
	writeJSON(w, http.StatusCreated, newListView(*l))
}

func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	l := h.ws.List(r.PathValue("id"))
	if l == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, http.StatusOK, newListView(*l))
}

func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	ok, err := h.ws.DeleteList(r.Context(), listID)
	if err != nil {
		h.logger.Error("delete list", "list_id", listID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityList, "deleted", listID, nil).ForList(listID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) ActiveList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"id": h.ws.ActiveID()})
}

func (h *ListHandler) SetActiveList(w http.ResponseWriter, r *http.Request) {
	var req activeListRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	if !h.ws.SetActive(req.ID) {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityList, "activated", req.ID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"id": h.ws.ActiveID()})
}

// Groups returns the list's items bucketed by category, uncategorized first,
// with the text colour that reads on each category colour.
func (h *ListHandler) Groups(w http.ResponseWriter, r *http.Request) {
	l := h.ws.List(r.PathValue("id"))
	if l == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	groups := shopping.GroupByCategory(*l)
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		v := groupView{Key: g.Key, Title: "General", Items: g.Items}
		if g.Category != nil {
			v.Title = g.Category.Name
			v.Color = g.Category.Color
			v.TextColor = model.ContrastColor(g.Category.Color)
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	l := h.ws.List(listID)
	if l == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	var req addItemRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	categoryID := req.CategoryID
	if categoryID != nil && *categoryID == "" {
		categoryID = nil
	}
	if categoryID == nil && req.AutoCategory {
		if suggested := grocery.Suggest(name); l.FindCategory(suggested) != -1 {
			categoryID = &suggested
		}
	}
	if categoryID != nil && l.FindCategory(*categoryID) == -1 {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	item, err := h.ws.AddItem(r.Context(), listID, name, req.Quantity, categoryID)
	if err != nil {
		h.logger.Error("add item", "list_id", listID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityItem, "created", item.ID, nil).ForList(listID))
	writeJSON(w, http.StatusCreated, item)
}

func (h *ListHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.itemOp(w, r, "deleted", h.ws.RemoveItem)
}

func (h *ListHandler) ToggleChecked(w http.ResponseWriter, r *http.Request) {
	h.itemOp(w, r, "checked", h.ws.ToggleChecked)
}

func (h *ListHandler) SetItemCategory(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	l := h.ws.List(listID)
	if l == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	var req setCategoryRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	if req.CategoryID != nil && *req.CategoryID != "" && l.FindCategory(*req.CategoryID) == -1 {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	h.itemOp(w, r, "categorized", func(ctx context.Context, listID, itemID string) (bool, error) {
		return h.ws.SetItemCategory(ctx, listID, itemID, req.CategoryID)
	})
}

// itemOp runs a boolean item operation and maps a false result to 404.
func (h *ListHandler) itemOp(w http.ResponseWriter, r *http.Request, action string, op func(context.Context, string, string) (bool, error)) {
	listID := r.PathValue("id")
	itemID := r.PathValue("item_id")
	if h.ws.List(listID) == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	ok, err := op(r.Context(), listID, itemID)
	if err != nil {
		h.logger.Error("item "+action, "list_id", listID, "item_id", itemID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityItem, action, itemID, nil).ForList(listID))
	if l := h.ws.List(listID); l != nil {
		if idx := l.FindItem(itemID); idx != -1 {
			writeJSON(w, http.StatusOK, l.Items[idx])
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	n, found, err := h.ws.ClearChecked(r.Context(), listID)
	if err != nil {
		h.logger.Error("clear checked", "list_id", listID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear checked items")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	if n > 0 {
		h.broadcast(websocket.NewMessage(websocket.EntityList, "cleared", listID, map[string]any{"removed": n}).ForList(listID))
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (h *ListHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	if h.ws.List(listID) == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	var req addCategoryRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	cat, err := h.ws.AddCategory(r.Context(), listID, name, req.Color)
	if err != nil {
		h.logger.Error("add category", "list_id", listID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add category")
		return
	}
	if cat == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityCategory, "created", cat.ID, nil).ForList(listID))
	writeJSON(w, http.StatusCreated, cat)
}

// RemoveCategory drops the category; items that used it become uncategorized.
func (h *ListHandler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	categoryID := r.PathValue("category_id")
	if h.ws.List(listID) == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	ok, err := h.ws.RemoveCategory(r.Context(), listID, categoryID)
	if err != nil {
		h.logger.Error("remove category", "list_id", listID, "category_id", categoryID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove category")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityCategory, "deleted", categoryID, nil).ForList(listID))
	w.WriteHeader(http.StatusNoContent)
}
