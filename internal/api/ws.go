package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pairpad/internal/metrics"
	"pairpad/internal/models"
	"pairpad/internal/session"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// CollabWS is the collaboration relay endpoint. A connection may present its
// locally persisted identity as ?clientId= so creator status survives a
// reload; otherwise it gets a fresh uuid. The handler runs a frame loop until
// the peer goes away; connection loss performs the same cleanup as an
// explicit leave on every room the identity belongs to.
func (h *Handlers) CollabWS(w http.ResponseWriter, r *http.Request) {
	connID := r.URL.Query().Get("clientId")
	if connID == "" {
		connID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := session.NewClient(connID, conn)
	h.logger.Info("client connected", zap.String("connId", client.ID))
	metrics.ConnectedClients.Inc()
	defer metrics.ConnectedClients.Dec()

	defer func() {
		for _, d := range h.store.Disconnect(client.ID) {
			session.Broadcast(d.Peers, models.Frame{
				Type: models.MsgUserLeft,
				Data: models.UserEvent{UserID: client.ID},
			})
		}
		h.logger.Info("client disconnected", zap.String("connId", client.ID))
	}()

	for {
		var frame models.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		h.dispatch(client, frame)
	}
}

func (h *Handlers) dispatch(c *session.Client, frame models.Frame) {
	switch frame.Type {
	case models.MsgCreateRoom:
		roomID := h.store.Create(c)
		c.Send(models.Frame{
			Type: models.MsgRoomCreated,
			Data: models.RoomCreated{RoomID: roomID, IsCreator: true},
		})
		h.logger.Info("room created", zap.String("roomId", roomID), zap.String("connId", c.ID))

	case models.MsgJoinRoom:
		var req models.RoomRequest
		unmarshal(frame.Data, &req)
		res, err := h.store.Join(req.RoomID, c)
		if err != nil {
			c.Send(errFrame("Room does not exist!"))
			return
		}
		h.sendJoined(c, res)
		h.logger.Info("client joined room", zap.String("roomId", req.RoomID), zap.String("connId", c.ID))

	case models.MsgRejoinRoom:
		var req models.RoomRequest
		unmarshal(frame.Data, &req)
		res, err := h.store.Rejoin(req.RoomID, c)
		if err != nil {
			c.Send(errFrame("Room no longer exists!"))
			return
		}
		h.sendJoined(c, res)
		h.logger.Info("client rejoined room", zap.String("roomId", req.RoomID), zap.String("connId", c.ID))

	case models.MsgCodeUpdate:
		var req models.CodeUpdate
		unmarshal(frame.Data, &req)
		// Fire-and-forget: bad room ids and unknown fields are dropped.
		peers := h.store.UpdateCode(req.RoomID, c.ID, req.Field, req.Value)
		session.Broadcast(peers, models.Frame{
			Type: models.MsgCodeUpdated,
			Data: models.CodeUpdated{Field: req.Field, Value: req.Value},
		})

	case models.MsgDeleteRoom:
		var req models.RoomRequest
		unmarshal(frame.Data, &req)
		members, err := h.store.Delete(req.RoomID, c.ID)
		if errors.Is(err, session.ErrNotCreator) {
			c.Send(errFrame("Only the creator can delete the room!"))
			return
		}
		if err != nil {
			c.Send(errFrame("Room does not exist!"))
			return
		}
		session.Broadcast(members, models.Frame{Type: models.MsgRoomDeleted})
		h.logger.Info("room deleted", zap.String("roomId", req.RoomID), zap.String("connId", c.ID))

	case models.MsgLeaveRoom:
		var req models.RoomRequest
		unmarshal(frame.Data, &req)
		peers, wasMember, err := h.store.Leave(req.RoomID, c.ID)
		if err != nil {
			c.Send(errFrame("Room does not exist!"))
			return
		}
		if !wasMember {
			return
		}
		c.Send(models.Frame{Type: models.MsgLeftRoom})
		session.Broadcast(peers, models.Frame{
			Type: models.MsgUserLeft,
			Data: models.UserEvent{UserID: c.ID},
		})
		h.logger.Info("client left room", zap.String("roomId", req.RoomID), zap.String("connId", c.ID))

	default:
		c.Send(errFrame("unknown message type"))
	}
}

func (h *Handlers) sendJoined(c *session.Client, res session.JoinResult) {
	c.Send(models.Frame{
		Type: models.MsgJoinedRoom,
		Data: models.JoinedRoom{RoomID: res.RoomID, Code: res.Doc, IsCreator: res.IsCreator},
	})
	session.Broadcast(res.Peers, models.Frame{
		Type: models.MsgUserJoined,
		Data: models.UserEvent{UserID: c.ID},
	})
}

// unmarshal round-trips frame payloads into their typed form.
func unmarshal(in any, out any) {
	b, _ := json.Marshal(in)
	_ = json.Unmarshal(b, out)
}

func errFrame(msg string) models.Frame {
	return models.Frame{Type: models.MsgError, Data: models.ErrorMessage{Message: msg}}
}
