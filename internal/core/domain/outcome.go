package domain

// AuthStatus classifies the result of one authentication attempt. Exactly one
// status applies per attempt; expected failures are values, not errors.
type AuthStatus string

const (
	// AuthSuccess means a candidate's password verified and the account may log in.
	AuthSuccess AuthStatus = "success"
	// AuthNotFound means no account matched the identifier by any lookup strategy.
	AuthNotFound AuthStatus = "not_found"
	// AuthWrongPassword means candidates existed but none verified the password.
	AuthWrongPassword AuthStatus = "wrong_password"
	// AuthNotConfirmed means the password verified but the account still awaits confirmation.
	AuthNotConfirmed AuthStatus = "not_confirmed"
)

// AuthOutcome is the classified result of an authentication attempt.
// Customer is set for AuthSuccess and AuthNotConfirmed only.
type AuthOutcome struct {
	Status   AuthStatus
	Customer *Customer
}

// SuccessOutcome builds the outcome for a verified, confirmed account.
func SuccessOutcome(customer Customer) AuthOutcome {
	return AuthOutcome{Status: AuthSuccess, Customer: &customer}
}

// NotFoundOutcome builds the outcome for an unknown identifier.
func NotFoundOutcome() AuthOutcome {
	return AuthOutcome{Status: AuthNotFound}
}

// WrongPasswordOutcome builds the outcome when no candidate verified the password.
func WrongPasswordOutcome() AuthOutcome {
	return AuthOutcome{Status: AuthWrongPassword}
}

// NotConfirmedOutcome builds the outcome for a verified but unconfirmed account.
func NotConfirmedOutcome(customer Customer) AuthOutcome {
	return AuthOutcome{Status: AuthNotConfirmed, Customer: &customer}
}

// Authenticated reports whether the attempt ended in a usable login.
func (o AuthOutcome) Authenticated() bool {
	return o.Status == AuthSuccess
}
