package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-food-orders/internal/notify"
	"github.com/ariefcatur/go-food-orders/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectedErr struct{ msg string }

func (e rejectedErr) Error() string       { return "rejected: " + e.msg }
func (e rejectedErr) UserMessage() string { return e.msg }

var errDown = errors.New("dial tcp: connection refused")

type fakeAuth struct {
	loginToken string
	loginUser  User
	loginErr   error

	registerErr error
	registered  []Registration

	profileUser  User
	profileErr   error
	profileToken string
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (string, User, error) {
	return f.loginToken, f.loginUser, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, r Registration) error {
	f.registered = append(f.registered, r)
	return f.registerErr
}

func (f *fakeAuth) UpdateProfile(_ context.Context, token string, _ ProfilePatch) (User, error) {
	f.profileToken = token
	return f.profileUser, f.profileErr
}

func ptr(s string) *string { return &s }

func newManager(auth Authenticator, demo bool) (*Manager, *store.Memory, *[]Event) {
	slots := store.NewMemory()
	m := NewManager(slots, auth, Options{DemoMode: demo})
	var events []Event
	m.Subscribe(func(e Event) { events = append(events, e) })
	return m, slots, &events
}

func TestLogin_RemoteSuccess(t *testing.T) {
	ctx := context.Background()
	remoteUser := User{ID: 9, Name: "Ana", Email: "ana@x.io"}
	m, slots, events := newManager(&fakeAuth{loginToken: "jwt", loginUser: remoteUser}, true)

	out, err := m.Login(ctx, "ana@x.io", "pw")

	require.NoError(t, err)
	assert.Equal(t, Outcome{OK: true, Message: "Login successful!"}, out)
	assert.True(t, m.Authenticated())
	assert.Equal(t, "jwt", m.Token())

	tok, err := slots.Get(ctx, store.SlotToken)
	require.NoError(t, err)
	assert.Equal(t, "jwt", string(tok))

	require.Len(t, *events, 1)
	assert.Equal(t, EventLoggedIn, (*events)[0].Kind)
	require.NotNil(t, (*events)[0].User)
	assert.Equal(t, int64(9), (*events)[0].User.ID)
	assert.Equal(t, notify.LevelSuccess, (*events)[0].Notice.Level)
}

func TestLogin_RemoteRejectionDoesNotFallBack(t *testing.T) {
	m, _, _ := newManager(&fakeAuth{loginErr: rejectedErr{"Invalid credentials"}}, true)

	out, err := m.Login(context.Background(), DemoEmail, DemoPassword)

	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, "Invalid credentials", out.Message)
	assert.False(t, m.Authenticated())
}

func TestLogin_DemoFallback(t *testing.T) {
	ctx := context.Background()
	m, slots, _ := newManager(&fakeAuth{loginErr: errDown}, true)

	out, err := m.Login(ctx, "demo@food.com", "demo123")

	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.True(t, out.Simulated)
	u, ok := m.User()
	require.True(t, ok)
	assert.Equal(t, DemoUser(), u)
	assert.Equal(t, DemoToken, m.Token())

	var stored User
	require.NoError(t, store.GetJSON(ctx, slots, store.SlotUser, &stored))
	assert.Equal(t, "Demo User", stored.Name)
}

func TestLogin_DemoFallbackWrongCredentials(t *testing.T) {
	for _, creds := range [][2]string{
		{"demo@food.com", "wrong"},
		{"someone@food.com", "demo123"},
		{"", ""},
	} {
		m, slots, events := newManager(&fakeAuth{loginErr: errDown}, true)

		out, err := m.Login(context.Background(), creds[0], creds[1])

		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.Equal(t, "Login failed. Try demo@food.com / demo123", out.Message)
		assert.False(t, m.Authenticated())
		_, err = slots.Get(context.Background(), store.SlotUser)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Equal(t, notify.LevelError, (*events)[len(*events)-1].Notice.Level)
	}
}

func TestLogin_NoRemoteConfigured(t *testing.T) {
	m, _, _ := newManager(nil, true)

	out, err := m.Login(context.Background(), DemoEmail, DemoPassword)

	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.True(t, out.Simulated)
}

func TestLogin_StrictModeSurfacesOutage(t *testing.T) {
	m, _, _ := newManager(&fakeAuth{loginErr: errDown}, false)

	out, err := m.Login(context.Background(), DemoEmail, DemoPassword)

	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, "Service unavailable, please try again", out.Message)
	assert.True(t, out.Unavailable)
	assert.False(t, m.Authenticated())
}

func TestRegister(t *testing.T) {
	valid := Registration{Name: "Ana", Email: "ana@x.io", Password: "pw"}

	t.Run("remote success does not sign in", func(t *testing.T) {
		auth := &fakeAuth{}
		m, _, _ := newManager(auth, true)
		out, err := m.Register(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, Outcome{OK: true, Message: "Registration successful! Please login."}, out)
		assert.False(t, m.Authenticated())
		assert.Len(t, auth.registered, 1)
	})

	t.Run("rejection", func(t *testing.T) {
		m, _, _ := newManager(&fakeAuth{registerErr: rejectedErr{"User already exists"}}, true)
		out, err := m.Register(context.Background(), valid)
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.Equal(t, "User already exists", out.Message)
	})

	t.Run("rejection without message", func(t *testing.T) {
		m, _, _ := newManager(&fakeAuth{registerErr: rejectedErr{""}}, true)
		out, _ := m.Register(context.Background(), valid)
		assert.Equal(t, "Registration failed", out.Message)
	})

	t.Run("outage in demo mode is simulated success", func(t *testing.T) {
		m, _, _ := newManager(&fakeAuth{registerErr: errDown}, true)
		out, err := m.Register(context.Background(), valid)
		require.NoError(t, err)
		assert.True(t, out.OK)
		assert.True(t, out.Simulated)
		assert.Contains(t, out.Message, "demo@food.com / demo123")
	})

	t.Run("outage in strict mode fails", func(t *testing.T) {
		m, _, _ := newManager(&fakeAuth{registerErr: errDown}, false)
		out, err := m.Register(context.Background(), valid)
		require.NoError(t, err)
		assert.False(t, out.OK)
	})

	t.Run("missing fields never reach the remote", func(t *testing.T) {
		auth := &fakeAuth{}
		m, _, _ := newManager(auth, true)
		out, err := m.Register(context.Background(), Registration{Name: "Ana", Password: "pw"})
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.Equal(t, "email is required", out.Message)
		assert.Empty(t, auth.registered)
	})
}

func TestLogout_KeepsOrderHistory(t *testing.T) {
	ctx := context.Background()
	m, slots, events := newManager(&fakeAuth{loginErr: errDown}, true)
	_, err := m.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	require.NoError(t, slots.Put(ctx, store.SlotCart, []byte(`[]`)))
	require.NoError(t, slots.Put(ctx, store.SlotOrders, []byte(`[]`)))

	require.NoError(t, m.Logout(ctx))

	assert.False(t, m.Authenticated())
	assert.Empty(t, m.Token())
	for _, s := range []string{store.SlotUser, store.SlotToken, store.SlotCart} {
		_, err := slots.Get(ctx, s)
		assert.ErrorIs(t, err, store.ErrNotFound, s)
	}
	_, err = slots.Get(ctx, store.SlotOrders)
	assert.NoError(t, err)

	last := (*events)[len(*events)-1]
	assert.Equal(t, EventLoggedOut, last.Kind)
	assert.Nil(t, last.User)
	assert.Equal(t, "Logged out successfully", last.Notice.Message)
}

func TestUpdateProfile_Remote(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{
		loginToken:  "jwt",
		loginUser:   User{ID: 3, Name: "Old"},
		profileUser: User{ID: 3, Name: "New", Phone: "555"},
	}
	m, slots, _ := newManager(auth, true)
	_, err := m.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	out, err := m.UpdateProfile(ctx, ProfilePatch{Name: ptr("New"), Phone: ptr("555")})

	require.NoError(t, err)
	assert.Equal(t, Outcome{OK: true, Message: "Profile updated successfully!"}, out)
	assert.Equal(t, "jwt", auth.profileToken, "bearer token forwarded")
	u, _ := m.User()
	assert.Equal(t, "New", u.Name)

	var stored User
	require.NoError(t, store.GetJSON(ctx, slots, store.SlotUser, &stored))
	assert.Equal(t, "555", stored.Phone)
}

func TestUpdateProfile_OptimisticFallback(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(&fakeAuth{loginErr: errDown, profileErr: errDown}, true)
	_, err := m.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)

	out, err := m.UpdateProfile(ctx, ProfilePatch{Address: ptr("1 Main St")})

	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.True(t, out.Simulated)
	u, _ := m.User()
	assert.Equal(t, "1 Main St", u.Address)
	assert.Equal(t, "Demo User", u.Name, "unpatched fields are kept")
}

func TestUpdateProfile_Rejected(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(&fakeAuth{loginErr: errDown, profileErr: rejectedErr{"Token is invalid"}}, true)
	_, err := m.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)

	out, err := m.UpdateProfile(ctx, ProfilePatch{Name: ptr("X")})

	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, "Token is invalid", out.Message)
	u, _ := m.User()
	assert.Equal(t, "Demo User", u.Name)
}

func TestUpdateProfile_RequiresUser(t *testing.T) {
	m, _, _ := newManager(&fakeAuth{}, true)

	out, err := m.UpdateProfile(context.Background(), ProfilePatch{Name: ptr("X")})

	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, "Please login to update your profile", out.Message)
	assert.False(t, m.Authenticated())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	slots := store.NewMemory()
	require.NoError(t, store.PutJSON(ctx, slots, store.SlotUser, DemoUser()))
	require.NoError(t, slots.Put(ctx, store.SlotToken, []byte("demo-token")))

	m := NewManager(slots, nil, Options{DemoMode: true})
	require.NoError(t, m.Restore(ctx))

	assert.True(t, m.Authenticated())
	assert.Equal(t, "demo-token", m.Token())

	empty := NewManager(store.NewMemory(), nil, Options{})
	require.NoError(t, empty.Restore(ctx))
	assert.False(t, empty.Authenticated())
}

func TestRestore_CorruptUser(t *testing.T) {
	ctx := context.Background()
	slots := store.NewMemory()
	require.NoError(t, slots.Put(ctx, store.SlotUser, []byte("{bad")))

	err := NewManager(slots, nil, Options{}).Restore(ctx)

	assert.Error(t, err)
}

func TestProfilePatch_Apply(t *testing.T) {
	u := ProfilePatch{Email: ptr("new@x.io")}.Apply(DemoUser())
	assert.Equal(t, "new@x.io", u.Email)
	assert.Equal(t, "+1234567890", u.Phone)
}
