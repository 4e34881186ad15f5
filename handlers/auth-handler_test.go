package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
)

type fakeUserRegistry struct {
	registerFn func(name, email, password string, role models.PlatformRole) (*models.User, error)
	loginFn    func(email, password string) (string, *models.User, error)
}

func (f *fakeUserRegistry) Register(_ context.Context, name, email, password string, role models.PlatformRole) (*models.User, error) {
	return f.registerFn(name, email, password, role)
}

func (f *fakeUserRegistry) Login(_ context.Context, email, password string) (string, *models.User, error) {
	return f.loginFn(email, password)
}

func TestRegisterAlwaysCreatesMember(t *testing.T) {
	var gotRole models.PlatformRole
	fake := &fakeUserRegistry{
		registerFn: func(name, email, password string, role models.PlatformRole) (*models.User, error) {
			gotRole = role
			return &models.User{ID: primitive.NewObjectID(), Name: name, Email: email, Role: role}, nil
		},
	}

	// A payload asking for admin must not grant it.
	body := bytes.NewBufferString(`{"name":"Mallory","email":"mallory@example.com","password":"hunter2","role":"admin"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()

	NewAuthHandler(fake).Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.PlatformMember, gotRole)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	fake := &fakeUserRegistry{
		registerFn: func(string, string, string, models.PlatformRole) (*models.User, error) {
			return nil, errs.Conflict("user with this email already exists")
		},
	}

	body := bytes.NewBufferString(`{"name":"Ana","email":"ana@example.com","password":"hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()

	NewAuthHandler(fake).Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"user with this email already exists"}`, rec.Body.String())
}

func TestLoginInvalidCredentials(t *testing.T) {
	fake := &fakeUserRegistry{
		loginFn: func(string, string) (string, *models.User, error) {
			return "", nil, errs.Authentication("invalid email or password")
		},
	}

	body := bytes.NewBufferString(`{"email":"ana@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()

	NewAuthHandler(fake).Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"invalid email or password"}`, rec.Body.String())
}
