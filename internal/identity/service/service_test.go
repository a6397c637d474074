package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"consentvault/internal/identity/models"
	"consentvault/internal/identity/service/mocks"
	"consentvault/internal/identity/store"
	jwttoken "consentvault/internal/jwt_token"
	secmodels "consentvault/internal/security/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/credential"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *store.InMemoryStore
	security *mocks.MockSecurityRecorder
	tokens   *jwttoken.JWTService
	service  *Service
	ctx      context.Context
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.security = mocks.NewMockSecurityRecorder(s.ctrl)
	s.tokens = jwttoken.NewJWTService("test-signing-key-0123456789abcdef", "consentvault", "consentvault-api", time.Hour, time.Hour)
	s.service = New(s.store, credential.NewHasher(bcrypt.MinCost), s.tokens,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSecurityRecorder(s.security),
	)
	s.now = time.Now().UTC().Truncate(time.Second)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) register(contact string) *models.RegisterResult {
	res, err := s.service.Register(s.ctx, &models.RegisterRequest{Name: "Ada", Contact: contact, Password: "correct-horse"})
	s.Require().NoError(err)
	return res
}

func (s *ServiceSuite) TestRegister() {
	s.Run("stores digest and returns unmasked key once", func() {
		res := s.register("a@x.com")
		s.Len(res.ConsentKey, id.ConsentKeyLength)
		s.NotEqual(res.ConsentKey, res.Identity.ConsentKey)

		stored, err := s.store.FindByConsentKey(s.ctx, id.ConsentKey(res.ConsentKey))
		s.Require().NoError(err)
		s.True(stored.ContactDigest.Matches("a@x.com"))
		s.NotContains(string(stored.PasswordHash), "correct-horse")
	})

	s.Run("duplicate contact is a conflict", func() {
		_, err := s.service.Register(s.ctx, &models.RegisterRequest{Name: "Bob", Contact: "A@X.COM", Password: "another-pass"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestRegisterRetriesConsentKeyCollision() {
	keys := []id.ConsentKey{"dupkey01", "dupkey01", "fresh001"}
	next := 0
	svc := New(s.store, credential.NewHasher(bcrypt.MinCost), s.tokens,
		WithConsentKeyGenerator(func() (id.ConsentKey, error) {
			k := keys[next]
			next++
			return k, nil
		}),
	)

	first, err := svc.Register(s.ctx, &models.RegisterRequest{Name: "A", Contact: "one@x.com", Password: "password1"})
	s.Require().NoError(err)
	s.Equal("dupkey01", first.ConsentKey)

	second, err := svc.Register(s.ctx, &models.RegisterRequest{Name: "B", Contact: "two@x.com", Password: "password2"})
	s.Require().NoError(err)
	s.Equal("fresh001", second.ConsentKey)
}

func (s *ServiceSuite) TestRegisterGivesUpAfterRepeatedCollisions() {
	ctrl := gomock.NewController(s.T())
	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(sentinel.ErrAlreadyUsed).Times(maxConsentKeyAttempts)

	svc := New(mockStore, credential.NewHasher(bcrypt.MinCost), s.tokens)
	_, err := svc.Register(s.ctx, &models.RegisterRequest{Name: "A", Contact: "a@x.com", Password: "password1"})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestAuthenticate() {
	res := s.register("a@x.com")

	s.Run("success issues token and refreshes activity", func() {
		later := s.now.Add(time.Hour)
		ctx := requestcontext.WithTime(context.Background(), later)
		s.security.EXPECT().Record(gomock.Any(), secmodels.EventAuthenticationSucceeded)

		out, err := s.service.Authenticate(ctx, &models.AuthenticateRequest{Contact: "a@x.com", Password: "correct-horse"})
		s.Require().NoError(err)
		s.NotEmpty(out.Token)

		claims, err := s.tokens.ValidateToken(out.Token)
		s.Require().NoError(err)
		s.Equal(res.ConsentKey, claims.ConsentKey)

		stored, _ := s.store.FindByConsentKey(s.ctx, id.ConsentKey(res.ConsentKey))
		s.Equal(later, stored.LastActivity)
	})

	s.Run("wrong password and unknown contact look identical", func() {
		s.security.EXPECT().Record(gomock.Any(), secmodels.EventAuthenticationFailed).Times(2)

		_, wrongPassword := s.service.Authenticate(s.ctx, &models.AuthenticateRequest{Contact: "a@x.com", Password: "nope-nope"})
		_, unknown := s.service.Authenticate(s.ctx, &models.AuthenticateRequest{Contact: "ghost@x.com", Password: "nope-nope"})

		s.True(dErrors.HasCode(wrongPassword, dErrors.CodeUnauthorized))
		s.True(dErrors.HasCode(unknown, dErrors.CodeUnauthorized))
		s.Equal(wrongPassword.Error(), unknown.Error())
	})

	s.Run("soft-deleted identity cannot authenticate", func() {
		s.Require().NoError(s.service.SoftDelete(s.ctx, id.ConsentKey(res.ConsentKey)))
		s.security.EXPECT().Record(gomock.Any(), secmodels.EventAuthenticationFailed)

		_, err := s.service.Authenticate(s.ctx, &models.AuthenticateRequest{Contact: "a@x.com", Password: "correct-horse"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestAuthenticateStoreFailureIsInternal() {
	ctrl := gomock.NewController(s.T())
	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().FindByContactDigest(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	svc := New(mockStore, credential.NewHasher(bcrypt.MinCost), s.tokens)
	_, err := svc.Authenticate(s.ctx, &models.AuthenticateRequest{Contact: "a@x.com", Password: "whatever1"})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestProfile() {
	res := s.register("a@x.com")
	stored, _ := s.store.FindByConsentKey(s.ctx, id.ConsentKey(res.ConsentKey))

	view, err := s.service.Profile(s.ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal("Ada", view.Name)
	s.Equal(id.ConsentKey(res.ConsentKey).Masked(), view.ConsentKey)

	s.Require().NoError(s.service.SoftDelete(s.ctx, stored.ConsentKey))
	s.Require().NoError(s.service.SoftDelete(s.ctx, stored.ConsentKey))
	_, err = s.service.Profile(s.ctx, stored.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSoftDeleteUnknownKey() {
	err := s.service.SoftDelete(s.ctx, "unknown1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestConfirmContact() {
	res := s.register("a@x.com")
	stored, _ := s.store.FindByConsentKey(s.ctx, id.ConsentKey(res.ConsentKey))

	s.NoError(s.service.ConfirmContact(s.ctx, stored.ID, " A@x.com "))

	err := s.service.ConfirmContact(s.ctx, stored.ID, "b@x.com")
	s.True(dErrors.HasCode(err, dErrors.CodeNoContactOnFile))

	s.Require().NoError(s.service.SoftDelete(s.ctx, stored.ConsentKey))
	err = s.service.ConfirmContact(s.ctx, stored.ID, "a@x.com")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
