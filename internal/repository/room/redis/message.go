package redis

import (
	"context"

	"github.com/salonsync/server/internal/repository/room"
)

func (r repo) getMessageKey(roomCode, messageId string) string {
	return "room:" + roomCode + ":message:" + messageId
}

func (r repo) getMessageListKey(roomCode string) string {
	return "room:" + roomCode + ":messages"
}

func (r repo) SetMessage(ctx context.Context, params *room.SetMessageParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	pipe := r.rc.TxPipeline()

	message := room.Message{
		ParticipantId: params.ParticipantId,
		Content:       params.Content,
		SentAt:        params.SentAt,
	}
	pipe.HSet(ctx, r.getMessageKey(params.RoomCode, params.MessageId), message)
	r.addWithIncrement(ctx, pipe, r.getMessageListKey(params.RoomCode), params.MessageId)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

// GetMessages lists a room's chat messages in send order.
func (r repo) GetMessages(ctx context.Context, roomCode string) ([]room.Message, error) {
	messageIds, err := r.rc.ZRange(ctx, r.getMessageListKey(roomCode), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	messages := make([]room.Message, 0, len(messageIds))
	for _, messageId := range messageIds {
		var message room.Message
		if err := r.rc.HGetAll(ctx, r.getMessageKey(roomCode, messageId)).Scan(&message); err != nil {
			r.logger.DebugContext(ctx, "returned", "error", err)
			return nil, err
		}
		message.Id = messageId

		messages = append(messages, message)
	}

	return messages, nil
}
