package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/config"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/jwt"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/otpkeeper/internal/vault/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccount = int64(1001)
	// base32 of "12345678901234567890", the RFC 6238 SHA1 seed
	rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
)

type fakeRepo struct {
	mu       sync.Mutex
	accounts map[int64]string
	catalogs map[int64][]entity.Service
	failWith error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accounts: map[int64]string{testAccount: "alice"},
		catalogs: map[int64][]entity.Service{},
	}
}

func (r *fakeRepo) MutateCatalog(_ context.Context, accountID int64, fn func(*entity.Catalog) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.accounts[accountID]; !ok {
		return goerror.ErrNotFound
	}

	c := entity.NewCatalog(accountID, r.catalogs[accountID])
	if err := fn(c); err != nil {
		return err
	}
	r.catalogs[accountID] = c.List()
	return nil
}

func (r *fakeRepo) GetCatalog(_ context.Context, accountID int64) (*entity.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	if _, ok := r.accounts[accountID]; !ok {
		return nil, goerror.ErrNotFound
	}
	return entity.NewCatalog(accountID, r.catalogs[accountID]), nil
}

func (r *fakeRepo) GetAccount(_ context.Context, accountID int64) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.accounts[accountID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &entity.Account{ID: accountID, DisplayName: name, ServiceCount: len(r.catalogs[accountID])}, nil
}

type fakeMessaging struct {
	mu       sync.Mutex
	enrolled []ServiceEvent
	removed  []ServiceEvent
}

func (m *fakeMessaging) PublishServiceEnrolled(_ context.Context, ev ServiceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrolled = append(m.enrolled, ev)
	return nil
}

func (m *fakeMessaging) PublishServiceRemoved(_ context.Context, ev ServiceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, ev)
	return nil
}

type fakeIdempotency struct {
	mu   sync.Mutex
	done map[string]bool
}

func (f *fakeIdempotency) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done[key] {
		return idempotency.ErrReplayed
	}
	if err := fn(ctx); err != nil {
		return err
	}
	f.done[key] = true
	return nil
}

type fixture struct {
	uc    *Usecase
	repo  *fakeRepo
	msg   *fakeMessaging
	clock *clock.Fixed
	gm    *goroutine.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithConfig(t, "modules:\n  vault:\n    verify_window: 1\n")
}

func newFixtureWithConfig(t *testing.T, yaml string) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	f := &fixture{
		repo:  newFakeRepo(),
		msg:   &fakeMessaging{},
		clock: clock.NewFixed(time.Unix(59, 0)),
		gm:    goroutine.NewManager(4),
	}
	f.uc = New(Dependency{
		RepoDB:        f.repo,
		RepoMessaging: f.msg,
		Idempotency:   &fakeIdempotency{done: map[string]bool{}},
		Validator:     v,
		Config:        cfg,
		UUID:          uid.NewUUID(),
		Clock:         f.clock,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.gm,
	})
	return f
}

func authed(accountID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{AccountID: accountID, Username: "alice"})
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	return gerr.StatusCode()
}

func TestEnrollService_ListWithCodes(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	out, err := f.uc.EnrollService(ctx, EnrollServiceInput{Name: "GitHub", Issuer: "GitHub", Secret: rfcSecret, Digits: 8})
	require.NoError(t, err)
	require.NotEmpty(t, out.ID)

	list, err := f.uc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	item := list.Items[0]
	assert.Equal(t, out.ID, item.ID)
	assert.Equal(t, "GitHub", item.Name)
	// RFC 6238 appendix B, T=59, SHA1
	assert.Equal(t, "94287082", item.Code)
	assert.Equal(t, 1, item.TimeRemaining)
	assert.Equal(t, otp.AlgorithmSHA1, item.Algorithm)
	assert.Equal(t, 30, item.Period)

	require.NoError(t, f.gm.Wait())
	require.Len(t, f.msg.enrolled, 1)
	assert.Equal(t, out.ID, f.msg.enrolled[0].ServiceID)
	assert.Equal(t, testAccount, f.msg.enrolled[0].AccountID)
}

func TestEnrollService_Defaults(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	_, err := f.uc.EnrollService(ctx, EnrollServiceInput{Name: "Plain", Secret: "jbswy3dpehpk3pxp"})
	require.NoError(t, err)

	list, err := f.uc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, otp.DefaultParams(), otp.Params{Algorithm: list.Items[0].Algorithm, Digits: list.Items[0].Digits, Period: list.Items[0].Period})
	assert.Empty(t, list.Items[0].Issuer)
	assert.Len(t, list.Items[0].Code, 6)
}

func TestEnrollService_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	tests := []struct {
		name   string
		in     EnrollServiceInput
		status int
		cause  error
	}{
		{name: "missing name", in: EnrollServiceInput{Secret: rfcSecret}, status: http.StatusUnprocessableEntity},
		{name: "bad base32", in: EnrollServiceInput{Name: "x", Secret: "not*base32"}, status: http.StatusUnprocessableEntity, cause: otp.ErrInvalidEncoding},
		{name: "bad algorithm", in: EnrollServiceInput{Name: "x", Secret: rfcSecret, Algorithm: "MD5"}, status: http.StatusUnprocessableEntity},
		{name: "digits", in: EnrollServiceInput{Name: "x", Secret: rfcSecret, Digits: 9}, status: http.StatusUnprocessableEntity, cause: otp.ErrInvalidDigits},
		{name: "period", in: EnrollServiceInput{Name: "x", Secret: rfcSecret, Period: -5}, status: http.StatusUnprocessableEntity, cause: otp.ErrInvalidPeriod},
		{name: "period beyond int32", in: EnrollServiceInput{Name: "x", Secret: rfcSecret, Period: 3_000_000_000}, status: http.StatusUnprocessableEntity, cause: otp.ErrInvalidPeriod},
		{name: "grouped secret", in: EnrollServiceInput{Name: "x", Secret: "JBSW Y3DP"}, status: http.StatusUnprocessableEntity, cause: otp.ErrInvalidEncoding},
		{name: "secret decodes empty", in: EnrollServiceInput{Name: "x", Secret: "===="}, status: http.StatusUnprocessableEntity, cause: entity.ErrInvalidDescriptor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.EnrollService(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.status, statusOf(t, err))
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}

	list, err := f.uc.ListServices(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestEnrollService_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.EnrollService(context.Background(), EnrollServiceInput{Name: "x", Secret: rfcSecret})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = f.uc.ListServices(context.Background())
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestEnrollService_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.EnrollService(authed(999), EnrollServiceInput{Name: "x", Secret: rfcSecret})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestEnrollService_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)
	in := EnrollServiceInput{Name: "GitHub", Secret: rfcSecret, IdempotencyKey: "req-1"}

	_, err := f.uc.EnrollService(ctx, in)
	require.NoError(t, err)

	_, err = f.uc.EnrollService(ctx, in)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.ErrorIs(t, err, idempotency.ErrReplayed)

	in.IdempotencyKey = "req-2"
	_, err = f.uc.EnrollService(ctx, in)
	require.NoError(t, err)

	acc, err := f.uc.AccountSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, acc.ServiceCount)
}

func TestEnrollServiceURL(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	out, err := f.uc.EnrollServiceURL(ctx, EnrollServiceURLInput{
		URL: "otpauth://totp/ACME%20Co:john@example.com?secret=" + rfcSecret + "&issuer=ACME%20Co&algorithm=SHA1&digits=8&period=30",
	})
	require.NoError(t, err)

	list, err := f.uc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, out.ID, list.Items[0].ID)
	assert.Equal(t, "john@example.com", list.Items[0].Name)
	assert.Equal(t, "ACME Co", list.Items[0].Issuer)
	assert.Equal(t, "94287082", list.Items[0].Code)
}

func TestEnrollServiceURL_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	tests := []struct {
		name  string
		url   string
		cause error
	}{
		{name: "scheme", url: "https://example.com", cause: otp.ErrMalformedURL},
		{name: "no secret", url: "otpauth://totp/x", cause: otp.ErrMissingSecret},
		{name: "algorithm", url: "otpauth://totp/x?secret=" + rfcSecret + "&algorithm=MD5", cause: otp.ErrUnsupportedAlgorithm},
		{name: "digits", url: "otpauth://totp/x?secret=" + rfcSecret + "&digits=12", cause: otp.ErrInvalidDigits},
		{name: "hotp", url: "otpauth://hotp/x?secret=" + rfcSecret + "&counter=3", cause: entity.ErrInvalidDescriptor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.EnrollServiceURL(ctx, EnrollServiceURLInput{URL: tt.url})
			assert.ErrorIs(t, err, tt.cause)
			assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
		})
	}
}

func TestRemoveService(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	a, err := f.uc.EnrollService(ctx, EnrollServiceInput{Name: "A", Secret: rfcSecret})
	require.NoError(t, err)
	b, err := f.uc.EnrollService(ctx, EnrollServiceInput{Name: "B", Secret: rfcSecret})
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveService(ctx, RemoveServiceInput{ID: a.ID}))

	list, err := f.uc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, b.ID, list.Items[0].ID)

	err = f.uc.RemoveService(ctx, RemoveServiceInput{ID: a.ID})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.ErrorIs(t, err, entity.ErrNotFound)

	err = f.uc.RemoveService(ctx, RemoveServiceInput{ID: "does-not-exist"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.ErrorIs(t, err, entity.ErrNotFound)

	require.NoError(t, f.gm.Wait())
	require.Len(t, f.msg.removed, 1)
	assert.Equal(t, a.ID, f.msg.removed[0].ServiceID)
	assert.Equal(t, "A", f.msg.removed[0].Name)
}

func TestVerifyService(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	out, err := f.uc.EnrollService(ctx, EnrollServiceInput{Name: "GitHub", Secret: rfcSecret, Digits: 8})
	require.NoError(t, err)

	f.clock.Set(time.Unix(1111111109, 0))

	tests := []struct {
		code string
		want bool
	}{
		{code: "07081804", want: true},
		{code: "07081805", want: false},
		{code: "0708180", want: false},
		{code: "abcdefgh", want: false},
		{code: "", want: false},
	}
	for _, tt := range tests {
		res, err := f.uc.VerifyService(ctx, VerifyServiceInput{ID: out.ID, Code: tt.code})
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Valid, tt.code)
	}

	// previous step accepted with the default window of one
	f.clock.Advance(30 * time.Second)
	res, err := f.uc.VerifyService(ctx, VerifyServiceInput{ID: out.ID, Code: "07081804"})
	require.NoError(t, err)
	assert.True(t, res.Valid)

	f.clock.Advance(30 * time.Second)
	res, err = f.uc.VerifyService(ctx, VerifyServiceInput{ID: out.ID, Code: "07081804"})
	require.NoError(t, err)
	assert.False(t, res.Valid)

	for _, id := range []string{"018f2b9e-3c7a-7c3e-9a51-8d2f5e6b1a00", "abc"} {
		_, err = f.uc.VerifyService(ctx, VerifyServiceInput{ID: id, Code: "07081804"})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err), id)
		assert.ErrorIs(t, err, entity.ErrNotFound, id)
	}
}

func TestVerifyService_WindowConfig(t *testing.T) {
	// At unix 59 the current counter is 1; 84755224 is the eight digit code
	// for counter 0.
	const previousStep = "84755224"

	tests := []struct {
		name string
		yaml string
		want bool
	}{
		{name: "key missing uses default window", yaml: "app:\n  name: otpkeeper\n", want: true},
		{name: "explicit window of one", yaml: "modules:\n  vault:\n    verify_window: 1\n", want: true},
		{name: "explicit zero window", yaml: "modules:\n  vault:\n    verify_window: 0\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtureWithConfig(t, tt.yaml)
			ctx := authed(testAccount)

			out, err := f.uc.EnrollService(ctx, EnrollServiceInput{Name: "GitHub", Secret: rfcSecret, Digits: 8})
			require.NoError(t, err)

			res, err := f.uc.VerifyService(ctx, VerifyServiceInput{ID: out.ID, Code: previousStep})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Valid)
		})
	}
}

func TestAccountSummary(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	acc, err := f.uc.AccountSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, &AccountSummaryOutput{ID: testAccount, DisplayName: "alice", ServiceCount: 0}, acc)

	_, err = f.uc.AccountSummary(authed(404))
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestProvisionService(t *testing.T) {
	f := newFixture(t)
	ctx := authed(testAccount)

	out, err := f.uc.ProvisionService(ctx, ProvisionServiceInput{Name: "alice@example.com", Issuer: "Acme", Digits: 8})
	require.NoError(t, err)
	assert.NotEmpty(t, out.QRCode)

	key, err := otp.ParseURL(out.OtpauthURL)
	require.NoError(t, err)
	assert.Equal(t, out.Secret, otp.EncodeBase32(key.Secret))
	assert.Len(t, key.Secret, otp.SecretSize)
	assert.Equal(t, 8, key.Digits)

	list, err := f.uc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, out.ID, list.Items[0].ID)
	assert.Equal(t, "Acme", list.Items[0].Issuer)

	want, err := otp.TOTP(key.Secret, f.clock.Now().Unix(), key.Params())
	require.NoError(t, err)
	assert.Equal(t, want, list.Items[0].Code)

	_, err = f.uc.ProvisionService(ctx, ProvisionServiceInput{Name: "bob"})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
}

func TestRepositoryFailureIsServerError(t *testing.T) {
	f := newFixture(t)
	f.repo.failWith = errors.New("connection reset")

	_, err := f.uc.ListServices(authed(testAccount))
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))

	_, err = f.uc.EnrollService(authed(testAccount), EnrollServiceInput{Name: "x", Secret: rfcSecret})
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
}
