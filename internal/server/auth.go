package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"barangay/internal"
	"barangay/internal/lifecycle"
	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type CognitoAPI interface {
	AdminCreateUser(ctx context.Context, params *cognitoidentityprovider.AdminCreateUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error)
	AdminSetUserPassword(ctx context.Context, params *cognitoidentityprovider.AdminSetUserPasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminSetUserPasswordOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
}

var (
	errEmailExists = &types.Error{
		Kind:    types.KindValidation,
		Code:    "EMAIL_EXISTS",
		Message: "An account with this email already exists.",
		Status:  http.StatusConflict,
	}

	errInvalidCredentials = &types.Error{
		Kind:    types.KindAuthorization,
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid email or password.",
		Status:  http.StatusUnauthorized,
	}
)

type signupRequest struct {
	FirstName  string `json:"firstName" form:"firstName" validate:"required"`
	MiddleName string `json:"middleName" form:"middleName"`
	LastName   string `json:"lastName" form:"lastName" validate:"required"`
	Birthday   string `json:"birthday" form:"birthday" validate:"required,datetime=2006-01-02"`
	Email      string `json:"email" form:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type resetPasswordRequest struct {
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"omitempty,eqfield=NewPassword"`
}

// handleSignup registers a resident with the identity provider using a
// temporary password derived from their name and birthday, then records
// the account.
func (s *Service) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signupRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	tempPassword, err := lifecycle.TemporaryPassword(firstName, req.Birthday)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.cognitoClient.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:        aws.String(s.config.CognitoUserPoolID),
		Username:          aws.String(email),
		TemporaryPassword: aws.String(tempPassword),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("given_name"), Value: aws.String(firstName)},
			{Name: aws.String("family_name"), Value: aws.String(lastName)},
			{Name: aws.String("birthdate"), Value: aws.String(req.Birthday)},
		},
		DesiredDeliveryMediums: []ctypes.DeliveryMediumType{ctypes.DeliveryMediumTypeEmail},
	})
	if err != nil {
		s.writeError(w, r, s.mapCognitoError(err))
		return
	}

	// Residents sign in with the temporary password directly, so it is made
	// permanent at the provider and tracked with the account flag instead.
	_, err = s.cognitoClient.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(s.config.CognitoUserPoolID),
		Username:   aws.String(email),
		Password:   aws.String(tempPassword),
		Permanent:  true,
	})
	if err != nil {
		s.removeProviderUser(ctx, email)
		s.writeError(w, r, s.mapCognitoError(err))
		return
	}

	account := &types.Account{
		ID:           subjectOf(created.User, email),
		Email:        email,
		FirstName:    firstName,
		MiddleName:   utils.NilIfBlank(req.MiddleName),
		LastName:     lastName,
		Birthday:     req.Birthday,
		TempPassword: true,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		s.removeProviderUser(ctx, email)
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("user_id", account.ID).Info("resident account created")

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"uid":          account.ID,
		"email":        account.Email,
		"tempPassword": tempPassword,
	})
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": strings.ToLower(strings.TrimSpace(req.Email)),
			"PASSWORD": req.Password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(ctx, input)
	if err != nil {
		s.writeError(w, r, s.mapCognitoError(err))
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		s.logger.WithField("challenge", resp.ChallengeName).Warn("login returned a challenge instead of tokens")
		s.writeError(w, r, errInvalidCredentials)
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	identity, err := s.verifier.Verify(ctx, accessToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tempPassword := false
	account, err := s.accounts.Account(ctx, identity.UserID)
	switch {
	case err == nil:
		tempPassword = account.TempPassword
	case errors.Is(err, types.ErrAccountNotFound):
		// administrators are provisioned directly at the provider
	default:
		s.writeError(w, r, err)
		return
	}

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Set httpOnly, secure cookie with access token
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	s.writeJSON(w, http.StatusOK, map[string]any{
		"uid":          identity.UserID,
		"accessToken":  accessToken,
		"expiresIn":    expiresIn,
		"tempPassword": tempPassword,
		"isAdmin":      identity.IsAdmin,
	})
}

func (s *Service) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req resetPasswordRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.Account(ctx, identity.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_, err = s.cognitoClient.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(s.config.CognitoUserPoolID),
		Username:   aws.String(account.Email),
		Password:   aws.String(req.NewPassword),
		Permanent:  true,
	})
	if err != nil {
		s.writeError(w, r, s.mapCognitoError(err))
		return
	}

	if err := s.accounts.MarkPasswordReset(ctx, account.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("user_id", account.ID).Info("resident replaced temporary password")

	s.writeJSON(w, http.StatusOK, map[string]any{
		"uid":          account.ID,
		"tempPassword": false,
	})
}

// removeProviderUser deletes a user created earlier in a signup that could
// not finish, so the email can register again.
func (s *Service) removeProviderUser(ctx context.Context, email string) {
	_, err := s.cognitoClient.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(s.config.CognitoUserPoolID),
		Username:   aws.String(email),
	})
	if err != nil {
		s.logger.WithError(err).WithField("username", email).Error("signup failed and the identity provider user could not be removed")
		return
	}

	s.logger.WithField("username", email).Warn("signup failed, identity provider user removed")
}

func (s *Service) mapCognitoError(err error) error {
	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		return errEmailExists
	}

	var notAuthorized *ctypes.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return errInvalidCredentials
	}

	var userNotFound *ctypes.UserNotFoundException
	if errors.As(err, &userNotFound) {
		return errInvalidCredentials
	}

	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		return types.NewValidationError("Password does not meet the password policy.")
	}

	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return types.NewValidationError("Some details are invalid. Please review and try again.")
	}

	s.logger.WithError(err).Error("unhandled cognito error")

	return types.NewUpstreamError(err)
}

// subjectOf returns the provider's stable "sub" for a newly created user,
// falling back to the username.
func subjectOf(user *ctypes.UserType, fallback string) string {
	if user == nil {
		return fallback
	}

	for _, attr := range user.Attributes {
		if aws.ToString(attr.Name) == "sub" && aws.ToString(attr.Value) != "" {
			return aws.ToString(attr.Value)
		}
	}

	if username := aws.ToString(user.Username); username != "" {
		return username
	}

	return fallback
}
