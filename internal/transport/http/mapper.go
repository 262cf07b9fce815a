package http

import (
	"encoding/json"

	"github.com/vovakirdan/snakechat-server/internal/core"
	"github.com/vovakirdan/snakechat-server/internal/proto"
)

// inboundToCommand decodes one frame into a core command. A non-nil
// *CoreError means the frame was understood well enough to answer but not
// to act on; the connection stays open either way.
func inboundToCommand(data []byte) (*core.Command, *core.CoreError) {
	var env proto.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "malformed message"}
	}

	switch env.Type {
	case proto.InboundTypeUserJoin:
		var join proto.UserJoin
		if err := json.Unmarshal(data, &join); err != nil {
			return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "malformed message"}
		}
		return &core.Command{
			Kind:     core.CommandUserJoin,
			Username: join.Username,
		}, nil
	case proto.InboundTypeJoinTeam:
		var team proto.JoinTeam
		if err := json.Unmarshal(data, &team); err != nil {
			return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "malformed message"}
		}
		if team.TeamCode == "" || team.AuthorKey == "" {
			return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "teamCode and authorKey are required"}
		}
		return &core.Command{
			Kind:      core.CommandJoinTeam,
			TeamCode:  team.TeamCode,
			AuthorKey: team.AuthorKey,
		}, nil
	case proto.InboundTypeChat:
		var msg proto.ChatInbound
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "malformed message"}
		}
		if msg.Channel == "" {
			return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "channel is required"}
		}
		if msg.Text == "" {
			return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "text is required"}
		}
		return &core.Command{
			Kind:    core.CommandSendMessage,
			Text:    msg.Text,
			Channel: msg.Channel,
		}, nil
	case proto.InboundTypeGetHistory:
		var hist proto.GetHistory
		if err := json.Unmarshal(data, &hist); err != nil {
			return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "malformed message"}
		}
		if hist.Channel == "" {
			return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: "channel is required"}
		}
		return &core.Command{
			Kind:    core.CommandGetHistory,
			Channel: hist.Channel,
		}, nil
	default:
		return nil, &core.CoreError{Code: core.ErrCodeUnknownType, Message: "unknown message type"}
	}
}

// outboundFromEvent renders a core event as the wire shape clients expect.
func outboundFromEvent(event *core.Event) any {
	switch event.Kind {
	case core.EventChat:
		return chatMessageFromRecord(event.Record)
	case core.EventSystem:
		return proto.SystemMessage{
			Type:      proto.OutboundTypeSystem,
			Text:      event.Record.Text,
			Timestamp: proto.FormatTime(event.Record.CreatedAt),
		}
	case core.EventHistory:
		messages := make([]proto.ChatMessage, 0, len(event.Records))
		for _, rec := range event.Records {
			messages = append(messages, chatMessageFromRecord(rec))
		}
		return proto.ChatHistory{
			Type:     proto.OutboundTypeHistory,
			Messages: messages,
		}
	case core.EventAuthResponse:
		resp := proto.AuthResponse{
			Type:      proto.OutboundTypeAuthResponse,
			Success:   event.Success,
			Timestamp: proto.FormatTime(event.At),
		}
		if event.Error != nil {
			resp.Code = event.Error.Code
		}
		return resp
	case core.EventError:
		text := "request failed"
		if event.Error != nil {
			text = event.Error.Message
		}
		return proto.SystemMessage{
			Type:      proto.OutboundTypeSystem,
			Text:      text,
			Timestamp: proto.FormatTime(event.At),
		}
	default:
		return proto.SystemMessage{
			Type:      proto.OutboundTypeSystem,
			Text:      "request failed",
			Timestamp: proto.FormatTime(event.At),
		}
	}
}

func chatMessageFromRecord(rec core.Record) proto.ChatMessage {
	return proto.ChatMessage{
		Type:      proto.OutboundTypeChat,
		Username:  rec.Author,
		Text:      rec.Text,
		Timestamp: proto.FormatTime(rec.CreatedAt),
		Channel:   rec.Channel,
	}
}
