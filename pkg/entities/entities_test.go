package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jmerrifield20/fedikit/pkg/entities"
)

func decode[T any](t *testing.T, body string) (T, error) {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return v, err
	}
	return v, entities.Validate(v)
}

func TestID_numberOrString(t *testing.T) {
	var got struct {
		A entities.ID `json:"a"`
		B entities.ID `json:"b"`
		C entities.ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"109","b":110,"c":null}`), &got); err != nil {
		t.Fatal(err)
	}
	if got.A != "109" || got.B != "110" || got.C != "" {
		t.Errorf("unexpected ids %+v", got)
	}

	n, err := got.B.Uint64()
	if err != nil || n != 110 {
		t.Errorf("Uint64() = %d, %v", n, err)
	}
	if _, err := entities.ID("abc").Uint64(); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestID_rejectsNegative(t *testing.T) {
	var id entities.ID
	if err := json.Unmarshal([]byte(`-1`), &id); err == nil {
		t.Fatal("expected error for negative id")
	}
}

func TestAccount_decode(t *testing.T) {
	body := `{
		"id": "1",
		"username": "alice",
		"acct": "alice@example.social",
		"display_name": "Alice",
		"note": "",
		"url": "https://example.social/@alice",
		"avatar": "",
		"header": "",
		"locked": true,
		"created_at": "2017-04-05T12:00:00.000Z",
		"followers_count": 3,
		"following_count": 4,
		"statuses_count": 5,
		"bot": false,
		"emojis": []
	}`
	got, err := decode[entities.Account](t, body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := entities.Account{
		ID:             "1",
		Username:       "alice",
		Acct:           "alice@example.social",
		DisplayName:    "Alice",
		URL:            "https://example.social/@alice",
		Locked:         true,
		CreatedAt:      time.Date(2017, 4, 5, 12, 0, 0, 0, time.UTC),
		FollowersCount: 3,
		FollowingCount: 4,
		StatusesCount:  5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("account mismatch (-want +got):\n%s", diff)
	}
}

func TestAccount_missingRequired(t *testing.T) {
	if _, err := decode[entities.Account](t, `{"error":"Record not found"}`); err == nil {
		t.Fatal("expected validation error for an error envelope")
	}
}

func TestVisibility_rejectsUnknown(t *testing.T) {
	var v entities.Visibility
	if err := json.Unmarshal([]byte(`"public"`), &v); err != nil || v != entities.VisibilityPublic {
		t.Fatalf("got %q, %v", v, err)
	}
	if err := json.Unmarshal([]byte(`"circle"`), &v); err == nil {
		t.Fatal("expected error for unknown visibility")
	}
}

func TestAttachmentType_unknown(t *testing.T) {
	got, err := decode[entities.Attachment](t, `{"id":"7","type":"audio","url":"https://example.social/a.mp3","preview_url":""}`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != entities.AttachmentUnknown {
		t.Errorf("Type = %q, want unknown", got.Type)
	}
}

func TestValidate_slices(t *testing.T) {
	good := []entities.Relationship{{ID: "1"}, {ID: "2"}}
	if err := entities.Validate(good); err != nil {
		t.Errorf("Validate(good) = %v", err)
	}
	bad := []entities.Relationship{{ID: "1"}, {}}
	if err := entities.Validate(bad); err == nil {
		t.Error("expected error for element without id")
	}
	if err := entities.Validate([]entities.Relationship{}); err != nil {
		t.Errorf("Validate(empty) = %v", err)
	}
	if err := entities.Validate(entities.Empty{}); err != nil {
		t.Errorf("Validate(Empty) = %v", err)
	}
}

func TestSearchResult_requiresAllLists(t *testing.T) {
	if _, err := decode[entities.SearchResult](t, `{"accounts":[],"statuses":[],"hashtags":["go"]}`); err != nil {
		t.Errorf("complete result: %v", err)
	}
	if _, err := decode[entities.SearchResult](t, `{"accounts":[],"statuses":[]}`); err == nil {
		t.Error("expected error when hashtags is missing")
	}
}

func TestOAuthToken_createdAt(t *testing.T) {
	var tok entities.OAuthToken
	body := `{"access_token":"tok","token_type":"Bearer","scope":"read","created_at":1500000000}`
	if err := json.Unmarshal([]byte(body), &tok); err != nil {
		t.Fatal(err)
	}
	if !tok.CreatedAt.Equal(time.Unix(1500000000, 0)) {
		t.Errorf("CreatedAt = %v", tok.CreatedAt)
	}

	out, err := json.Marshal(tok)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != body {
		t.Errorf("Marshal = %s", out)
	}
}

func TestNotification_rejectsUnknownType(t *testing.T) {
	var n entities.Notification
	if err := json.Unmarshal([]byte(`{"id":"1","type":"poll"}`), &n); err == nil {
		t.Fatal("expected error for unknown notification type")
	}
}
