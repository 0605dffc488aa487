package handlers

import (
	"time"

	"github.com/Necroforger/dgrouter/exrouter"
	"github.com/cufee/botto-verify/media"
	"github.com/cufee/botto-verify/verify"
)

// replyFunc - Answer a prefix command
type replyFunc func(ctx *exrouter.Context, msg string, timer time.Duration) error

// replyDel - Reply and delete the reply after timer seconds
func replyDel(ctx *exrouter.Context, msg string, timer time.Duration) error {
	newMsg, err := ctx.Reply(msg)
	if err != nil {
		return err
	}
	time.AfterFunc(time.Second*timer, func() {
		ctx.Ses.ChannelMessageDelete(ctx.Msg.ChannelID, newMsg.ID)
	})
	return nil
}

func isImage(a verify.Attachment) bool {
	return media.IsImageAttachment(a.ContentType, a.Filename)
}
