package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"barangay/internal/lifecycle"
	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type memRequests struct {
	rows map[string]types.Request
	seq  int
}

func (m *memRequests) CreateRequest(ctx context.Context, request *types.Request) error {
	m.seq++
	request.ID = fmt.Sprintf("req%05d", m.seq)
	m.rows[request.ID] = *request
	return nil
}

func (m *memRequests) Request(ctx context.Context, requestID string) (*types.Request, error) {
	row, ok := m.rows[requestID]
	if !ok {
		return nil, types.ErrRequestNotFound
	}
	return &row, nil
}

func (m *memRequests) RequestsByUser(ctx context.Context, userID string) ([]types.Request, error) {
	out := make([]types.Request, 0)
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memRequests) AllRequests(ctx context.Context) ([]types.Request, error) {
	out := make([]types.Request, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out, nil
}

func (m *memRequests) UpdateStatus(ctx context.Context, request *types.Request) error {
	if _, ok := m.rows[request.ID]; !ok {
		return types.ErrRequestNotFound
	}
	m.rows[request.ID] = *request
	return nil
}

func (m *memRequests) CountByStatus(ctx context.Context) (types.StatusCounts, error) {
	counts := make(types.StatusCounts)
	for _, row := range m.rows {
		counts[row.Status]++
	}
	return counts, nil
}

type memProfiles struct {
	rows     map[string]types.Profile
	archived map[string]types.ArchivedProfile
}

func (m *memProfiles) Profile(ctx context.Context, userID string) (*types.Profile, error) {
	row, ok := m.rows[userID]
	if !ok {
		return nil, types.ErrProfileNotFound
	}
	return &row, nil
}

func (m *memProfiles) Profiles(ctx context.Context) ([]types.Profile, error) {
	out := make([]types.Profile, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memProfiles) Count(ctx context.Context) (int, error) {
	return len(m.rows), nil
}

func (m *memProfiles) Upsert(ctx context.Context, profile *types.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	existing, ok := m.rows[profile.UserID]
	if !ok {
		m.rows[profile.UserID] = *profile
		return nil
	}
	merge(&existing, profile)
	m.rows[profile.UserID] = existing
	return nil
}

func (m *memProfiles) Update(ctx context.Context, userID string, profile *types.Profile) error {
	existing, ok := m.rows[userID]
	if !ok {
		return types.ErrProfileNotFound
	}
	profile.UpdatedAt = time.Now().UTC()
	merge(&existing, profile)
	m.rows[userID] = existing
	return nil
}

func (m *memProfiles) Archive(ctx context.Context, userID, archivedBy string) (*types.ArchivedProfile, error) {
	row, ok := m.rows[userID]
	if !ok {
		return nil, types.ErrProfileNotFound
	}
	archived := types.ArchivedProfile{Profile: row, ArchivedAt: time.Now().UTC(), ArchivedBy: archivedBy}
	m.archived[userID] = archived
	delete(m.rows, userID)
	return &archived, nil
}

// merge copies the handful of fields the tests touch.
func merge(dst, src *types.Profile) {
	if src.FirstName != nil {
		dst.FirstName = src.FirstName
	}
	if src.LastName != nil {
		dst.LastName = src.LastName
	}
	if src.PhoneNumber != nil {
		dst.PhoneNumber = src.PhoneNumber
	}
	if src.CompleteAddress != nil {
		dst.CompleteAddress = src.CompleteAddress
	}
	dst.UpdatedAt = src.UpdatedAt
}

type memAccounts struct {
	rows      map[string]types.Account
	createErr error
}

func (m *memAccounts) Create(ctx context.Context, account *types.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.rows[account.ID] = *account
	return nil
}

func (m *memAccounts) Account(ctx context.Context, accountID string) (*types.Account, error) {
	row, ok := m.rows[accountID]
	if !ok {
		return nil, types.ErrAccountNotFound
	}
	return &row, nil
}

func (m *memAccounts) MarkPasswordReset(ctx context.Context, accountID string) error {
	row, ok := m.rows[accountID]
	if !ok {
		return types.ErrAccountNotFound
	}
	row.TempPassword = false
	m.rows[accountID] = row
	return nil
}

func (m *memAccounts) MarkCompleteInfo(ctx context.Context, accountID string, profile *types.Profile) error {
	row, ok := m.rows[accountID]
	if !ok {
		return types.ErrAccountNotFound
	}
	row.CompleteInfo = true
	row.FirstName = utils.PtrString(profile.FirstName)
	row.LastName = utils.PtrString(profile.LastName)
	m.rows[accountID] = row
	return nil
}

type memPurposes struct {
	catalog types.PurposeCatalog
}

func (m *memPurposes) Catalog(ctx context.Context) (types.PurposeCatalog, error) {
	if len(m.catalog) == 0 {
		return nil, types.ErrPurposesNotFound
	}
	return m.catalog, nil
}

func (m *memPurposes) Exists(ctx context.Context) (bool, error) {
	return len(m.catalog) > 0, nil
}

func (m *memPurposes) ReplaceAll(ctx context.Context, catalog types.PurposeCatalog) error {
	m.catalog = catalog
	return nil
}

type fakeRenderer struct {
	calls []types.Certificate
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, cert types.Certificate) (*types.CertificateResult, error) {
	f.calls = append(f.calls, cert)
	if f.err != nil {
		return nil, f.err
	}
	return &types.CertificateResult{Key: "certificates/" + cert.RequestID + ".pdf", CreatedAt: cert.IssuedAt}, nil
}

// fakeVerifier accepts the tokens it has been told about.
type fakeVerifier struct {
	tokens map[string]*types.Identity
}

func (f *fakeVerifier) Verify(ctx context.Context, accessToken string) (*types.Identity, error) {
	identity, ok := f.tokens[accessToken]
	if !ok {
		return nil, errors.New("token signature invalid")
	}
	return identity, nil
}

type fakeCognito struct {
	passwords map[string]string
	subs      map[string]string
	verifier  *fakeVerifier
	createErr error
	setCalls  []*cognitoidentityprovider.AdminSetUserPasswordInput
	deleted   []string
}

func (f *fakeCognito) AdminCreateUser(ctx context.Context, params *cognitoidentityprovider.AdminCreateUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	email := aws.ToString(params.Username)
	if _, exists := f.passwords[email]; exists {
		return nil, &ctypes.UsernameExistsException{Message: aws.String("User account already exists")}
	}

	sub := "sub-" + email
	f.subs[email] = sub
	f.passwords[email] = aws.ToString(params.TemporaryPassword)

	return &cognitoidentityprovider.AdminCreateUserOutput{
		User: &ctypes.UserType{
			Username: aws.String(email),
			Attributes: []ctypes.AttributeType{
				{Name: aws.String("email"), Value: aws.String(email)},
				{Name: aws.String("sub"), Value: aws.String(sub)},
			},
		},
	}, nil
}

func (f *fakeCognito) AdminSetUserPassword(ctx context.Context, params *cognitoidentityprovider.AdminSetUserPasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminSetUserPasswordOutput, error) {
	f.setCalls = append(f.setCalls, params)
	f.passwords[aws.ToString(params.Username)] = aws.ToString(params.Password)
	return &cognitoidentityprovider.AdminSetUserPasswordOutput{}, nil
}

func (f *fakeCognito) InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	email := params.AuthParameters["USERNAME"]
	password, ok := f.passwords[email]
	if !ok || password != params.AuthParameters["PASSWORD"] {
		return nil, &ctypes.NotAuthorizedException{Message: aws.String("Incorrect username or password.")}
	}

	token := "access-" + email
	f.verifier.tokens[token] = &types.Identity{UserID: f.subs[email], Email: email}

	return &cognitoidentityprovider.InitiateAuthOutput{
		AuthenticationResult: &ctypes.AuthenticationResultType{
			AccessToken: aws.String(token),
			ExpiresIn:   3600,
		},
	}, nil
}

func (f *fakeCognito) AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error) {
	email := aws.ToString(params.Username)
	f.deleted = append(f.deleted, email)
	delete(f.passwords, email)
	delete(f.subs, email)
	return &cognitoidentityprovider.AdminDeleteUserOutput{}, nil
}

const (
	residentToken = "resident-token"
	otherToken    = "other-token"
	adminToken    = "admin-token"
)

type testEnv struct {
	srv      *Service
	requests *memRequests
	profiles *memProfiles
	accounts *memAccounts
	purposes *memPurposes
	renderer *fakeRenderer
	cognito  *fakeCognito
	verifier *fakeVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		ServerPort:        8080,
		AllowedOrigins:    []string{"http://localhost:3000"},
		CognitoAdminGroup: "admin",
		BarangayName:      "Barangay 186",
		BarangayLocality:  "Caloocan City",
		CookieHashKey:     base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		CookieBlockKey:    base64.StdEncoding.EncodeToString([]byte("fedcba9876543210fedcba9876543210")),
	}

	env := &testEnv{
		requests: &memRequests{rows: make(map[string]types.Request)},
		profiles: &memProfiles{rows: make(map[string]types.Profile), archived: make(map[string]types.ArchivedProfile)},
		accounts: &memAccounts{rows: make(map[string]types.Account)},
		purposes: &memPurposes{},
		renderer: &fakeRenderer{},
		verifier: &fakeVerifier{tokens: map[string]*types.Identity{
			residentToken: {UserID: "resident-1", Email: "juan@example.com"},
			otherToken:    {UserID: "resident-2", Email: "maria@example.com"},
			adminToken:    {UserID: "admin-1", Email: "kap@example.com", IsAdmin: true},
		}},
	}
	env.cognito = &fakeCognito{
		passwords: make(map[string]string),
		subs:      make(map[string]string),
		verifier:  env.verifier,
	}

	service := lifecycle.NewService(config, logger, env.requests, env.profiles, env.renderer)

	srv, err := New(config, logger, env.cognito, env.verifier, service, env.accounts, env.profiles, env.purposes)
	require.NoError(t, err)
	env.srv = srv

	return env
}
