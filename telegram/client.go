// Package telegram delivers replies through the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bjaus/webhookbot"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	httpTimeout    = 10 * time.Second
)

// APIError is returned when the Bot API rejects a call.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: error %d: %s", e.Method, e.Code, e.Description)
}

// Client calls the Bot API for one bot token. Client is safe for concurrent
// use.
type Client struct {
	botToken string
	client   *http.Client
	baseURL  string
}

// New creates a client for botToken. No request is made until the first
// call.
func New(botToken string) *Client {
	return &Client{
		botToken: botToken,
		client:   &http.Client{Timeout: httpTimeout},
		baseURL:  defaultBaseURL,
	}
}

// WithBaseURL overrides the Bot API base URL (for testing or a local API
// server).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// SendMessage delivers reply to its chat. Failed deliveries are not retried.
func (c *Client) SendMessage(ctx context.Context, reply webhookbot.Reply) error {
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ParseMode = string(reply.ParseMode)
	if len(reply.Keyboard) > 0 {
		msg.ReplyMarkup = keyboardMarkup(reply.Keyboard)
	}

	_, err := c.bot(ctx).Request(msg)
	return wrap("sendMessage", err)
}

func keyboardMarkup(kb webhookbot.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token.String()))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// AllowedUpdates lists the update kinds the dispatcher can classify.
var AllowedUpdates = []string{"message", "edited_message", "callback_query"}

// SetWebhook points the bot's updates at webhookURL. When secret is set the
// platform sends it in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	wh.AllowedUpdates = AllowedUpdates

	// tgbotapi.WebhookConfig predates secret_token, so the params are built
	// here from the config.
	params := tgbotapi.Params{"url": wh.URL.String()}
	params.AddNonEmpty("secret_token", secret)
	if err := params.AddInterface("allowed_updates", wh.AllowedUpdates); err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}

	_, err = c.bot(ctx).MakeRequest("setWebhook", params)
	return wrap("setWebhook", err)
}

// DeleteWebhook removes the bot's webhook.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := c.bot(ctx).Request(tgbotapi.DeleteWebhookConfig{})
	return wrap("deleteWebhook", err)
}

// bot returns a BotAPI bound to ctx. It is built directly rather than with
// tgbotapi.NewBotAPI, which calls getMe first.
func (c *Client) bot(ctx context.Context) *tgbotapi.BotAPI {
	bot := &tgbotapi.BotAPI{
		Token:  c.botToken,
		Client: ctxClient{ctx: ctx, client: c.client},
	}
	bot.SetAPIEndpoint(c.baseURL + "/bot%s/%s")
	return bot
}

// ctxClient attaches a context to the requests tgbotapi builds.
type ctxClient struct {
	ctx    context.Context
	client *http.Client
}

func (c ctxClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(c.ctx))
}

func wrap(method string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &APIError{Method: method, Code: apiErr.Code, Description: apiErr.Message}
	}
	return fmt.Errorf("telegram %s: %w", method, redact(err))
}

// redact drops the request URL, which embeds the bot token, from transport
// errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
