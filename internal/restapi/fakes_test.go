package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/potionworks/potiond/config"
	"github.com/potionworks/potiond/internal/domain"
	"github.com/potionworks/potiond/internal/repository"
	"github.com/potionworks/potiond/internal/webserver"
)

const testCookieName = "potiond_session"

var (
	_ repository.PotionRepository = (*fakePotionStore)(nil)
	_ repository.UserRepository   = (*fakeUserStore)(nil)
)

var errStore = errors.New("store unavailable")

// fakePotionStore is an in-memory repository.PotionRepository recording
// every call it receives.
type fakePotionStore struct {
	potions      []domain.Potion
	aggResult    []bson.M
	lastPipeline mongo.Pipeline
	calls        []string
	failAll      bool
}

func (f *fakePotionStore) record(op string) error {
	f.calls = append(f.calls, op)
	if f.failAll {
		return errStore
	}
	return nil
}

func (f *fakePotionStore) List(ctx context.Context) ([]domain.Potion, error) {
	if err := f.record("List"); err != nil {
		return nil, err
	}
	out := make([]domain.Potion, len(f.potions))
	copy(out, f.potions)
	return out, nil
}

func (f *fakePotionStore) ListNames(ctx context.Context) ([]domain.PotionName, error) {
	if err := f.record("ListNames"); err != nil {
		return nil, err
	}
	out := make([]domain.PotionName, 0, len(f.potions))
	for _, p := range f.potions {
		out = append(out, domain.PotionName{Name: p.Name})
	}
	return out, nil
}

func (f *fakePotionStore) ListByVendor(ctx context.Context, vendorID string) ([]domain.Potion, error) {
	if err := f.record("ListByVendor"); err != nil {
		return nil, err
	}
	out := make([]domain.Potion, 0)
	for _, p := range f.potions {
		if p.VendorID == vendorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePotionStore) ListByPriceRange(ctx context.Context, min, max *float64) ([]domain.Potion, error) {
	if err := f.record("ListByPriceRange"); err != nil {
		return nil, err
	}
	out := make([]domain.Potion, 0)
	for _, p := range f.potions {
		if min != nil && p.Price < *min {
			continue
		}
		if max != nil && p.Price > *max {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePotionStore) GetByID(ctx context.Context, id string) (*domain.Potion, error) {
	if err := f.record("GetByID"); err != nil {
		return nil, err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, domain.ErrNotFound
	}
	for i := range f.potions {
		if f.potions[i].ID.Hex() == id {
			p := f.potions[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePotionStore) Create(ctx context.Context, p *domain.Potion) error {
	if err := f.record("Create"); err != nil {
		return err
	}
	p.ID = primitive.NewObjectID()
	f.potions = append(f.potions, *p)
	return nil
}

func (f *fakePotionStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Potion, error) {
	if err := f.record("Update"); err != nil {
		return nil, err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, domain.ErrNotFound
	}
	for i := range f.potions {
		if f.potions[i].ID.Hex() != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "name":
				if s, ok := v.(string); ok {
					f.potions[i].Name = s
				}
			case "price":
				if n, ok := v.(float64); ok {
					f.potions[i].Price = n
				}
			case "score":
				if n, ok := v.(float64); ok {
					f.potions[i].Score = n
				}
			case "vendor_id":
				if s, ok := v.(string); ok {
					f.potions[i].VendorID = s
				}
			}
		}
		p := f.potions[i]
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePotionStore) Delete(ctx context.Context, id string) error {
	if err := f.record("Delete"); err != nil {
		return err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return domain.ErrNotFound
	}
	for i := range f.potions {
		if f.potions[i].ID.Hex() == id {
			f.potions = append(f.potions[:i], f.potions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakePotionStore) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	if err := f.record("Aggregate"); err != nil {
		return nil, err
	}
	f.lastPipeline = pipeline
	if f.aggResult == nil {
		return []bson.M{}, nil
	}
	return f.aggResult, nil
}

// fakeUserStore is an in-memory repository.UserRepository with the same
// uniqueness behavior as the real collection.
type fakeUserStore struct {
	users map[string]domain.User
	calls []string
}

func (f *fakeUserStore) GetByName(ctx context.Context, name string) (*domain.User, error) {
	f.calls = append(f.calls, "GetByName")
	u, found := f.users[name]
	if !found {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserStore) Create(ctx context.Context, u *domain.User) error {
	f.calls = append(f.calls, "Create")
	if f.users == nil {
		f.users = map[string]domain.User{}
	}
	if _, found := f.users[u.Name]; found {
		return domain.ErrDuplicate
	}
	u.ID = primitive.NewObjectID()
	f.users[u.Name] = *u
	return nil
}

func (f *fakeUserStore) add(t *testing.T, name, password string) {
	t.Helper()
	u := domain.User{Name: name}
	require.NoError(t, u.SetPassword(password, bcrypt.MinCost))
	require.NoError(t, f.Create(context.Background(), &u))
}

func newTestServer(t *testing.T) (*echo.Echo, *fakePotionStore, *fakeUserStore) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Web.Secret = "unit-test-secret"
	cfg.Web.BcryptCost = bcrypt.MinCost

	potions := &fakePotionStore{}
	users := &fakeUserStore{}

	ws := webserver.New(cfg)
	New(cfg, potions, users).Register(ws.Echo())
	return ws.Echo(), potions, users
}

func doRequest(e *echo.Echo, method, target string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func sessionCookie(t *testing.T, e *echo.Echo, users *fakeUserStore, name, password string) *http.Cookie {
	t.Helper()
	users.add(t, name, password)
	rec := doRequest(e, http.MethodPost, "/auth/login", map[string]string{"name": name, "password": password})
	require.Equal(t, http.StatusOK, rec.Code)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == testCookieName {
			return ck
		}
	}
	t.Fatal("session cookie not set")
	return nil
}
