package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bjaus/webhookbot"
)

// buildRegistry registers the bot's handlers.
func buildRegistry(currentProbe bool) (*webhookbot.Registry, error) {
	b := webhookbot.NewBuilder()

	err := errors.Join(
		b.RegisterCommand("echo", webhookbot.CommandFunc(echo)),
		b.RegisterCommand("upper", webhookbot.CommandFunc(upper)),
		b.RegisterInline("ping", webhookbot.CommandFunc(ping)),
		b.RegisterCallback("more", webhookbot.CallbackFunc(more)),
	)
	if err != nil {
		return nil, err
	}
	if currentProbe {
		if err := b.EnableCurrentProbe(); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func echo(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
	return webhookbot.NewReply(msg.ChatID, msg.Text), nil
}

func upper(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
	return webhookbot.NewReply(msg.ChatID, strings.ToUpper(msg.Text)), nil
}

func ping(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
	button := webhookbot.Button{
		Label: "More",
		Token: webhookbot.NewCallbackToken("more").WithOrigin(uint64(msg.ID)),
	}
	return webhookbot.NewReply(msg.ChatID, "pong").WithKeyboard(webhookbot.Row(button)), nil
}

func more(ctx context.Context, msg webhookbot.Message, origin *uint64) (webhookbot.Reply, error) {
	if origin == nil {
		return webhookbot.NewReply(msg.ChatID, "No origin message"), nil
	}
	return webhookbot.NewReply(msg.ChatID, fmt.Sprintf("Origin message: %d", *origin)), nil
}
