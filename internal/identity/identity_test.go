package identity

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

type fakeHost struct {
	unsafe  *initdata.InitData
	raw     string
	pageURL string
}

func (h fakeHost) InitDataUnsafe() *initdata.InitData { return h.unsafe }
func (h fakeHost) InitDataRaw() string                { return h.raw }
func (h fakeHost) PageURL() string                    { return h.pageURL }

func rawInitData(user, chat string) string {
	v := url.Values{}
	if user != "" {
		v.Set("user", user)
	}
	if chat != "" {
		v.Set("chat", chat)
	}
	v.Set("auth_date", "1700000000")
	v.Set("hash", "abc")
	return v.Encode()
}

func TestIdentityPrefersUserID(t *testing.T) {
	p := Read(fakeHost{unsafe: &initdata.InitData{
		User: initdata.User{ID: 660741573, FirstName: "Ivan"},
		Chat: initdata.Chat{ID: -100500},
	}})

	id, ok := p.Identity()
	require.True(t, ok)
	assert.EqualValues(t, 660741573, id)
	require.NotNil(t, p.ChatID)
	assert.EqualValues(t, 660741573, *p.ChatID)
}

func TestIdentityFallsBackToChatID(t *testing.T) {
	p := Read(fakeHost{unsafe: &initdata.InitData{Chat: initdata.Chat{ID: -100500}}})

	assert.Nil(t, p.UserID)
	id, ok := p.Identity()
	require.True(t, ok)
	assert.EqualValues(t, -100500, id)
}

func TestReadProfileFields(t *testing.T) {
	p := Read(fakeHost{unsafe: &initdata.InitData{User: initdata.User{
		ID: 1, FirstName: "Ivan", LastName: "Petrov", Username: "ivanp", PhotoURL: "https://t.me/i/1.jpg",
	}}})

	require.NotNil(t, p.FullName)
	assert.Equal(t, "Ivan Petrov", *p.FullName)
	assert.Equal(t, "ivanp", *p.Username)
	assert.Equal(t, "https://t.me/i/1.jpg", *p.PhotoURL)

	p = Read(fakeHost{unsafe: &initdata.InitData{User: initdata.User{ID: 1, LastName: "Petrov"}}})
	require.NotNil(t, p.FullName)
	assert.Equal(t, "Petrov", *p.FullName)
	assert.Nil(t, p.Username)
	assert.Nil(t, p.PhotoURL)

	p = Read(fakeHost{unsafe: &initdata.InitData{User: initdata.User{ID: 1}}})
	assert.Nil(t, p.FullName)
}

func TestReadFallsBackToRawInitData(t *testing.T) {
	p := Read(fakeHost{
		unsafe: &initdata.InitData{},
		raw:    rawInitData(`{"id":42,"first_name":"Raw","username":"raw_user"}`, ""),
	})

	id, ok := p.Identity()
	require.True(t, ok)
	assert.EqualValues(t, 42, id)
	assert.Equal(t, "raw_user", *p.Username)
}

func TestReadFallsBackToPageURL(t *testing.T) {
	page := "https://app.example.com/?" + url.Values{
		PageURLParam: {rawInitData(`{"id":77,"first_name":"Link"}`, "")},
	}.Encode()

	p := Read(fakeHost{raw: "user=%7Bbroken", pageURL: page})

	id, ok := p.Identity()
	require.True(t, ok)
	assert.EqualValues(t, 77, id)
}

func TestReadStructuredSourceWins(t *testing.T) {
	p := Read(fakeHost{
		unsafe: &initdata.InitData{User: initdata.User{ID: 1}},
		raw:    rawInitData(`{"id":2}`, ""),
	})
	id, _ := p.Identity()
	assert.EqualValues(t, 1, id)
}

func TestReadAllSourcesFailing(t *testing.T) {
	p := Read(fakeHost{raw: "user=%7Bbroken", pageURL: "://bad url"})

	_, ok := p.Identity()
	assert.False(t, ok)
	assert.Equal(t, Profile{}, p)

	assert.Equal(t, Profile{}, Read(nil))
}
