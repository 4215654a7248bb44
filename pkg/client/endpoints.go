package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/jmerrifield20/fedikit/pkg/entities"
)

// ── accounts ─────────────────────────────────────────────────────────────────

// VerifyCredentials returns the authenticated user's account.
// GET /api/v1/accounts/verify_credentials
func (c *Client) VerifyCredentials(ctx context.Context) (entities.Account, error) {
	return send[entities.Account](ctx, c, getCall(apiPath("accounts/verify_credentials"), nil))
}

// Account fetches an account by id. GET /api/v1/accounts/:id
func (c *Client) Account(ctx context.Context, id uint64) (entities.Account, error) {
	return send[entities.Account](ctx, c, getCall(apiPath("accounts/%d", id), nil))
}

// Followers lists the accounts following id. GET /api/v1/accounts/:id/followers
func (c *Client) Followers(ctx context.Context, id uint64) ([]entities.Account, error) {
	return send[[]entities.Account](ctx, c, getCall(apiPath("accounts/%d/followers", id), nil))
}

// Following lists the accounts id follows. GET /api/v1/accounts/:id/following
func (c *Client) Following(ctx context.Context, id uint64) ([]entities.Account, error) {
	return send[[]entities.Account](ctx, c, getCall(apiPath("accounts/%d/following", id), nil))
}

// StatusesOptions filters AccountStatuses. False flags and a zero SinceID
// are not sent.
type StatusesOptions struct {
	OnlyMedia      bool
	ExcludeReplies bool
	SinceID        uint64
}

// AccountStatuses lists an account's statuses. GET /api/v1/accounts/:id/statuses
func (c *Client) AccountStatuses(ctx context.Context, id uint64, opts StatusesOptions) ([]entities.Status, error) {
	var q query
	q.flag("only_media", opts.OnlyMedia)
	q.flag("exclude_replies", opts.ExcludeReplies)
	q.optUint("since_id", opts.SinceID)
	return send[[]entities.Status](ctx, c, getCall(apiPath("accounts/%d/statuses", id), q))
}

// Relationships returns the authenticated user's relationship with each id.
// GET /api/v1/accounts/relationships
func (c *Client) Relationships(ctx context.Context, ids []uint64) ([]entities.Relationship, error) {
	var q query
	q.ids("id", ids)
	return send[[]entities.Relationship](ctx, c, getCall(apiPath("accounts/relationships"), q))
}

// SearchAccounts searches accounts by name. A zero limit is not sent.
// GET /api/v1/accounts/search
func (c *Client) SearchAccounts(ctx context.Context, q string, limit int) ([]entities.Account, error) {
	var params query
	params.add("q", q)
	if limit > 0 {
		params.add("limit", strconv.Itoa(limit))
	}
	return send[[]entities.Account](ctx, c, getCall(apiPath("accounts/search"), params))
}

// Follow follows an account. GET /api/v1/accounts/:id/follow
func (c *Client) Follow(ctx context.Context, id uint64) (entities.Account, error) {
	return c.accountAction(ctx, id, "follow")
}

// Unfollow unfollows an account. GET /api/v1/accounts/:id/unfollow
func (c *Client) Unfollow(ctx context.Context, id uint64) (entities.Account, error) {
	return c.accountAction(ctx, id, "unfollow")
}

// Block blocks an account. GET /api/v1/accounts/:id/block
func (c *Client) Block(ctx context.Context, id uint64) (entities.Account, error) {
	return c.accountAction(ctx, id, "block")
}

// Unblock unblocks an account. GET /api/v1/accounts/:id/unblock
func (c *Client) Unblock(ctx context.Context, id uint64) (entities.Account, error) {
	return c.accountAction(ctx, id, "unblock")
}

// Mute mutes an account. GET /api/v1/accounts/:id/mute
func (c *Client) Mute(ctx context.Context, id uint64) (entities.Account, error) {
	return c.accountAction(ctx, id, "mute")
}

// Unmute unmutes an account. GET /api/v1/accounts/:id/unmute
func (c *Client) Unmute(ctx context.Context, id uint64) (entities.Account, error) {
	return c.accountAction(ctx, id, "unmute")
}

func (c *Client) accountAction(ctx context.Context, id uint64, action string) (entities.Account, error) {
	return send[entities.Account](ctx, c, getCall(apiPath("accounts/%d/%s", id, action), nil))
}

// Blocks lists blocked accounts. GET /api/v1/blocks
func (c *Client) Blocks(ctx context.Context) ([]entities.Account, error) {
	return send[[]entities.Account](ctx, c, getCall(apiPath("blocks"), nil))
}

// Mutes lists muted accounts. GET /api/v1/mutes
func (c *Client) Mutes(ctx context.Context) ([]entities.Account, error) {
	return send[[]entities.Account](ctx, c, getCall(apiPath("mutes"), nil))
}

// Follows follows a remote account by its URI (user@domain). POST /api/v1/follows
func (c *Client) Follows(ctx context.Context, uri string) (entities.Account, error) {
	return send[entities.Account](ctx, c, formCall(apiPath("follows"), url.Values{"uri": {uri}}))
}

// ── follow requests ──────────────────────────────────────────────────────────

// FollowRequests lists pending follow requests. GET /api/v1/follow_requests
func (c *Client) FollowRequests(ctx context.Context) ([]entities.Account, error) {
	return send[[]entities.Account](ctx, c, getCall(apiPath("follow_requests"), nil))
}

// AllowFollowRequest authorizes a follow request from account id.
// POST /api/v1/accounts/follow_requests/authorize
func (c *Client) AllowFollowRequest(ctx context.Context, id uint64) (entities.Empty, error) {
	form := url.Values{"id": {strconv.FormatUint(id, 10)}}
	return send[entities.Empty](ctx, c, formCall(apiPath("accounts/follow_requests/authorize"), form))
}

// RejectFollowRequest rejects a follow request from account id.
// POST /api/v1/accounts/follow_requests/reject
func (c *Client) RejectFollowRequest(ctx context.Context, id uint64) (entities.Empty, error) {
	form := url.Values{"id": {strconv.FormatUint(id, 10)}}
	return send[entities.Empty](ctx, c, formCall(apiPath("accounts/follow_requests/reject"), form))
}

// ── notifications ────────────────────────────────────────────────────────────

// Notifications lists the authenticated user's notifications.
// GET /api/v1/notifications
func (c *Client) Notifications(ctx context.Context) ([]entities.Notification, error) {
	return send[[]entities.Notification](ctx, c, getCall(apiPath("notifications"), nil))
}

// Notification fetches one notification. GET /api/v1/notifications/:id
func (c *Client) Notification(ctx context.Context, id uint64) (entities.Notification, error) {
	return send[entities.Notification](ctx, c, getCall(apiPath("notifications/%d", id), nil))
}

// ClearNotifications deletes all notifications. POST /api/v1/notifications/clear
func (c *Client) ClearNotifications(ctx context.Context) (entities.Empty, error) {
	return send[entities.Empty](ctx, c, postCall(apiPath("notifications/clear")))
}

// ── timelines ────────────────────────────────────────────────────────────────

// HomeTimeline returns the home timeline. GET /api/v1/timelines/home
func (c *Client) HomeTimeline(ctx context.Context) ([]entities.Status, error) {
	return send[[]entities.Status](ctx, c, getCall(apiPath("timelines/home"), nil))
}

// PublicTimeline returns the federated timeline, or only this instance's
// statuses when local is set. GET /api/v1/timelines/public
func (c *Client) PublicTimeline(ctx context.Context, local bool) ([]entities.Status, error) {
	var q query
	q.flag("local", local)
	return send[[]entities.Status](ctx, c, getCall(apiPath("timelines/public"), q))
}

// TagTimeline returns statuses tagged with hashtag (without the '#').
// GET /api/v1/timelines/tag/:hashtag
func (c *Client) TagTimeline(ctx context.Context, hashtag string, local bool) ([]entities.Status, error) {
	var q query
	q.flag("local", local)
	return send[[]entities.Status](ctx, c, getCall(apiPath("timelines/tag/%s", url.PathEscape(hashtag)), q))
}

// ── statuses ─────────────────────────────────────────────────────────────────

// Status fetches a status. GET /api/v1/statuses/:id
func (c *Client) Status(ctx context.Context, id uint64) (entities.Status, error) {
	return send[entities.Status](ctx, c, getCall(apiPath("statuses/%d", id), nil))
}

// StatusContext fetches the thread around a status. GET /api/v1/statuses/:id/context
func (c *Client) StatusContext(ctx context.Context, id uint64) (entities.Context, error) {
	return send[entities.Context](ctx, c, getCall(apiPath("statuses/%d/context", id), nil))
}

// StatusCard fetches a status's link preview. GET /api/v1/statuses/:id/card
func (c *Client) StatusCard(ctx context.Context, id uint64) (entities.Card, error) {
	return send[entities.Card](ctx, c, getCall(apiPath("statuses/%d/card", id), nil))
}

// RebloggedBy lists accounts that reblogged a status.
// GET /api/v1/statuses/:id/reblogged_by
func (c *Client) RebloggedBy(ctx context.Context, id uint64) ([]entities.Account, error) {
	return send[[]entities.Account](ctx, c, getCall(apiPath("statuses/%d/reblogged_by", id), nil))
}

// FavouritedBy lists accounts that favourited a status.
// GET /api/v1/statuses/:id/favourited_by
func (c *Client) FavouritedBy(ctx context.Context, id uint64) ([]entities.Account, error) {
	return send[[]entities.Account](ctx, c, getCall(apiPath("statuses/%d/favourited_by", id), nil))
}

// Reblog reblogs a status. POST /api/v1/statuses/:id/reblog
func (c *Client) Reblog(ctx context.Context, id uint64) (entities.Status, error) {
	return c.statusAction(ctx, id, "reblog")
}

// Unreblog undoes a reblog. POST /api/v1/statuses/:id/unreblog
func (c *Client) Unreblog(ctx context.Context, id uint64) (entities.Status, error) {
	return c.statusAction(ctx, id, "unreblog")
}

// Favourite favourites a status. POST /api/v1/statuses/:id/favourite
func (c *Client) Favourite(ctx context.Context, id uint64) (entities.Status, error) {
	return c.statusAction(ctx, id, "favourite")
}

// Unfavourite undoes a favourite. POST /api/v1/statuses/:id/unfavourite
func (c *Client) Unfavourite(ctx context.Context, id uint64) (entities.Status, error) {
	return c.statusAction(ctx, id, "unfavourite")
}

func (c *Client) statusAction(ctx context.Context, id uint64, action string) (entities.Status, error) {
	return send[entities.Status](ctx, c, postCall(apiPath("statuses/%d/%s", id, action)))
}

// DeleteStatus deletes one of the authenticated user's statuses.
// DELETE /api/v1/statuses/:id
func (c *Client) DeleteStatus(ctx context.Context, id uint64) (entities.Empty, error) {
	return send[entities.Empty](ctx, c, deleteCall(apiPath("statuses/%d", id)))
}

// NewStatus posts a status. The body is sent as JSON; if the builder has an
// IdempotencyKey it is sent as the Idempotency-Key header.
// POST /api/v1/statuses
func (c *Client) NewStatus(ctx context.Context, status StatusBuilder) (entities.Status, error) {
	cl, err := jsonCall(apiPath("statuses"), status)
	if err != nil {
		return entities.Status{}, err
	}
	if status.IdempotencyKey != "" {
		cl.header = http.Header{"Idempotency-Key": {status.IdempotencyKey}}
	}
	return send[entities.Status](ctx, c, cl)
}

// ── media, reports, search, instance ─────────────────────────────────────────

// Media uploads a file as multipart/form-data. The part's content type is
// sniffed from the first bytes of file. POST /api/v1/media
func (c *Client) Media(ctx context.Context, file []byte) (entities.Attachment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="file"`)
	h.Set("Content-Type", http.DetectContentType(file))
	part, err := mw.CreatePart(h)
	if err != nil {
		return entities.Attachment{}, wrapErr(KindIO, fmt.Errorf("create multipart part: %w", err))
	}
	if _, err := part.Write(file); err != nil {
		return entities.Attachment{}, wrapErr(KindIO, fmt.Errorf("write multipart part: %w", err))
	}
	if err := mw.Close(); err != nil {
		return entities.Attachment{}, wrapErr(KindIO, fmt.Errorf("close multipart body: %w", err))
	}

	return send[entities.Attachment](ctx, c, call{
		method:      http.MethodPost,
		path:        apiPath("media"),
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
}

// Reports lists reports filed by the authenticated user. GET /api/v1/reports
func (c *Client) Reports(ctx context.Context) ([]entities.Report, error) {
	return send[[]entities.Report](ctx, c, getCall(apiPath("reports"), nil))
}

// Report files a report against an account. POST /api/v1/reports
func (c *Client) Report(ctx context.Context, accountID uint64, statusIDs []uint64, comment string) (entities.Report, error) {
	form := url.Values{}
	form.Set("account_id", strconv.FormatUint(accountID, 10))
	formIDs(form, "status_ids", statusIDs)
	form.Set("comment", comment)
	return send[entities.Report](ctx, c, formCall(apiPath("reports"), form))
}

// Search searches accounts, statuses and hashtags. With resolve set the
// service may look up remote accounts by WebFinger. POST /api/v1/search
func (c *Client) Search(ctx context.Context, q string, resolve bool) (entities.SearchResult, error) {
	form := url.Values{}
	form.Set("q", q)
	form.Set("resolve", strconv.FormatBool(resolve))
	return send[entities.SearchResult](ctx, c, formCall(apiPath("search"), form))
}

// Instance returns information about the instance. GET /api/v1/instance
func (c *Client) Instance(ctx context.Context) (entities.Instance, error) {
	return send[entities.Instance](ctx, c, getCall(apiPath("instance"), nil))
}
