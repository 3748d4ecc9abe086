package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

func (h *Handler) GetStaffChat(w http.ResponseWriter, r *http.Request) {
	messages, err := h.repository.GetRecentStaffMessages(h.config.Chat.HistoryLimit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "messages fetched", messages)
}

func (h *Handler) PostStaffMessage(w http.ResponseWriter, r *http.Request) {
	h.postStaffMessage(w, r, domain.MessageChat)
}

// PostAdvice lets admins send advice and finance admins send briefings to the
// super admin through the liaison feed.
func (h *Handler) PostAdvice(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	switch myInfo.Role {
	case domain.RoleAdmin, domain.RoleSeniorAdmin:
		h.postStaffMessage(w, r, domain.MessageAdvice)
	case domain.RoleFinanceAdmin:
		h.postStaffMessage(w, r, domain.MessageBriefing)
	default:
		h.errorResponse(w, r, "the super admin issues directives instead")
	}
}

func (h *Handler) postStaffMessage(w http.ResponseWriter, r *http.Request, kind domain.StaffMessageKind) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		Text string `json:"text" validate:"required,max=2000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	msg := &domain.StaffMessage{
		SenderID:       myInfo.ID,
		SenderUsername: myInfo.Username,
		SenderRole:     myInfo.Role,
		Kind:           kind,
		Text:           req.Text,
	}
	if err := h.repository.CreateStaffMessage(msg); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.hub.Broadcast(msg)
	h.successResponse(w, r, "message sent", msg)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// StaffChatSocket streams new staff messages to the caller until the socket closes.
func (h *Handler) StaffChatSocket(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	upgrader := upgrader
	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(h.config.CORS.AllowedOrigins, origin)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		slog.Warn("staff chat upgrade failed", "accountID", myInfo.ID, "error", err)
		return
	}

	client := h.hub.Register(conn, myInfo.ID)
	defer h.hub.Unregister(client)

	client.readPump()
}
