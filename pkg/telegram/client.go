package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/gotd/td/session"
	tgclient "github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/message/peer"
	"github.com/gotd/td/tg"
)

const historyBatch = 100

var ErrNotAuthorized = errors.New("telegram session is not authorized")

type Options struct {
	AppID       int
	AppHash     string
	SessionPath string

	// Phone enables interactive login when the stored session is not
	// authorized yet. Code supplies the login code sent by Telegram.
	Phone    string
	Password string
	Code     func(ctx context.Context) (string, error)
}

type Client struct {
	client *tgclient.Client
	opts   Options
}

func NewClient(opts Options) *Client {
	return &Client{
		client: tgclient.NewClient(opts.AppID, opts.AppHash, tgclient.Options{
			SessionStorage: &session.FileStorage{Path: opts.SessionPath},
		}),
		opts: opts,
	}
}

// Run connects, makes sure the session is logged in and resolves channel
// before calling fn. The connection closes when fn returns.
func (c *Client) Run(ctx context.Context, channel string, fn func(ctx context.Context, ch *Channel) error) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		if err := c.authorize(ctx); err != nil {
			return err
		}

		api := c.client.API()

		p, err := peer.DefaultResolver(api).ResolveDomain(ctx, ChannelName(channel))
		if err != nil {
			return fmt.Errorf("resolve channel %q: %w", channel, err)
		}

		return fn(ctx, &Channel{
			api:       api,
			peer:      p,
			documents: make(map[int]*tg.InputDocumentFileLocation),
		})
	})
}

func (c *Client) authorize(ctx context.Context) error {
	if c.opts.Phone != "" && c.opts.Code != nil {
		code := auth.CodeAuthenticatorFunc(func(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
			return c.opts.Code(ctx)
		})
		flow := auth.NewFlow(auth.Constant(c.opts.Phone, c.opts.Password, code), auth.SendCodeOptions{})
		if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		return nil
	}

	status, err := c.client.Auth().Status(ctx)
	if err != nil {
		return fmt.Errorf("auth status: %w", err)
	}
	if !status.Authorized {
		return ErrNotAuthorized
	}
	return nil
}

// Channel is a resolved channel on a live connection.
type Channel struct {
	api       *tg.Client
	peer      tg.InputPeerClass
	documents map[int]*tg.InputDocumentFileLocation
}

// Posts returns the posts newer than afterID, oldest first.
func (ch *Channel) Posts(ctx context.Context, afterID int) ([]Post, error) {
	var posts []Post
	offsetID := 0

	for {
		res, err := ch.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
			Peer:     ch.peer,
			OffsetID: offsetID,
			MinID:    afterID,
			Limit:    historyBatch,
		})
		if err != nil {
			return nil, fmt.Errorf("get history: %w", err)
		}

		batch := historyMessages(res)
		if len(batch) == 0 {
			break
		}

		for _, m := range batch {
			if offsetID == 0 || m.GetID() < offsetID {
				offsetID = m.GetID()
			}

			msg, ok := m.(*tg.Message)
			if !ok || msg.ID <= afterID {
				continue
			}

			posts = append(posts, ch.post(msg))
		}

		if len(batch) < historyBatch {
			break
		}
	}

	slices.Reverse(posts)
	return posts, nil
}

func (ch *Channel) post(msg *tg.Message) Post {
	p := Post{ID: msg.ID, Text: msg.Message}

	media, ok := msg.Media.(*tg.MessageMediaDocument)
	if !ok {
		return p
	}

	doc, ok := media.Document.(*tg.Document)
	if !ok {
		return p
	}

	p.MIMEType = doc.MimeType
	for _, attr := range doc.Attributes {
		if _, ok := attr.(*tg.DocumentAttributeAudio); ok {
			p.Audio = true
		}
	}

	ch.documents[msg.ID] = doc.AsInputDocumentFileLocation()
	return p
}

// Download writes the document attached to a post returned by Posts.
func (ch *Channel) Download(ctx context.Context, postID int, w io.Writer) error {
	loc, ok := ch.documents[postID]
	if !ok {
		return fmt.Errorf("post %d has no document", postID)
	}

	if _, err := downloader.NewDownloader().Download(ch.api, loc).Stream(ctx, w); err != nil {
		return fmt.Errorf("download post %d: %w", postID, err)
	}

	return nil
}

func historyMessages(res tg.MessagesMessagesClass) []tg.MessageClass {
	switch r := res.(type) {
	case *tg.MessagesMessages:
		return r.Messages
	case *tg.MessagesMessagesSlice:
		return r.Messages
	case *tg.MessagesChannelMessages:
		return r.Messages
	}
	return nil
}
