package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/service/room"
	"github.com/salonsync/server/pkg/rest"
)

func restStatus(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound), errors.Is(err, room.ErrInvalidParticipant), errors.Is(err, room.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrInvalidPin):
		return http.StatusForbidden
	case errors.Is(err, room.ErrDuplicateItem):
		return http.StatusConflict
	case errors.Is(err, room.ErrMalformedRequest), errors.Is(err, room.ErrPlaylistLimitReached):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (c controller) writeRestError(w http.ResponseWriter, err error) {
	rest.WriteJSON(w, restStatus(err), rest.Envelope{"error": errorCode(err)})
}

type createRoomRequest struct {
	Name   string  `json:"name" validate:"required,max=64"`
	Pseudo string  `json:"pseudo" validate:"required,max=32"`
	Pin    *string `json:"pin" validate:"omitempty,min=4,max=16"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	createRoomResp, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Name:   req.Name,
		Pseudo: req.Pseudo,
		Pin:    req.Pin,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to create room", "error", err)
		c.writeRestError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": map[string]any{
		"room":        createRoomResp.Room,
		"participant": createRoomResp.Creator,
	}})
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomResp, err := c.roomService.GetRoom(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeRestError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomResp})
}

func (c controller) getRoomState(w http.ResponseWriter, r *http.Request) {
	stateResp, err := c.roomService.GetRoomState(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeRestError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": stateResp})
}

type joinRoomRequest struct {
	Pseudo string  `json:"pseudo" validate:"required,max=32"`
	Pin    *string `json:"pin" validate:"omitempty,min=4,max=16"`
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	joinRoomResp, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomCode: chi.URLParam(r, "room-code"),
		Pseudo:   req.Pseudo,
		Pin:      req.Pin,
	})
	if err != nil {
		c.writeRestError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]any{
		"room":        joinRoomResp.Room,
		"participant": joinRoomResp.Participant,
	}})
}

type leaveRoomRequest struct {
	ParticipantId string `json:"participant_id" validate:"required"`
}

func (c controller) leaveRoom(w http.ResponseWriter, r *http.Request) {
	var req leaveRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	leaveRoomResp, err := c.roomService.LeaveRoom(r.Context(), &room.LeaveRoomParams{
		RoomCode:      chi.URLParam(r, "room-code"),
		ParticipantId: req.ParticipantId,
	})
	if err != nil {
		c.writeRestError(w, err)
		return
	}

	if err := c.broadcast(r.Context(), leaveRoomResp.Conns, &Output{
		Event: "participantsUpdated",
		Payload: map[string]any{
			"participants": leaveRoomResp.Participants,
		},
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to broadcast participants", "error", err)
	}

	// a leaver may still hold open connections, so the online-list can
	// change here too
	if err := c.broadcast(r.Context(), leaveRoomResp.Conns, &Output{
		Event: "participantsOnline",
		Payload: map[string]any{
			"participants": leaveRoomResp.Online,
		},
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to broadcast online list", "error", err)
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]any{
		"participants": leaveRoomResp.Participants,
	}})
}

func (c controller) deleteRoom(w http.ResponseWriter, r *http.Request) {
	deleteRoomResp, err := c.roomService.DeleteRoom(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeRestError(w, err)
		return
	}

	for _, conn := range deleteRoomResp.Conns {
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room deleted"), time.Now().Add(time.Second*5))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) getPlaylist(w http.ResponseWriter, r *http.Request) {
	items, err := c.roomService.GetPlaylist(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeRestError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": items})
}

func (c controller) getHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := c.roomService.GetHistory(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeRestError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": entries})
}
