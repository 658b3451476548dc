package wsrouter

import "context"

type ctxKey string

const (
	messageTypeKey ctxKey = "message_type"
)

func GetMessageTypeFromCtx(ctx context.Context) string {
	event, ok := ctx.Value(messageTypeKey).(string)
	if !ok {
		return ""
	}

	return event
}
