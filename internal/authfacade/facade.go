// Package authfacade is the AuthFacade of spec.md §4.5: the public surface
// behind register/challenge/verify, wiring together the user directory, the
// protocol engine, the token issuer, and the audit event bus.
package authfacade

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dkarasev/zkid/internal/auth"
	"github.com/dkarasev/zkid/internal/common"
	"github.com/dkarasev/zkid/internal/events"
	"github.com/dkarasev/zkid/internal/group"
	"github.com/dkarasev/zkid/internal/logging"
	"github.com/dkarasev/zkid/internal/protocol"
	"github.com/dkarasev/zkid/internal/userdirectory"
)

// ChallengeResult is what the HTTP layer serializes for a challenge
// response (spec.md §6).
type ChallengeResult struct {
	ChallengeID string
	C, P, Q, G  *big.Int
}

// VerifyResult is what the HTTP layer serializes for a successful verify
// (spec.md §6).
type VerifyResult struct {
	Token     string
	Username  string
	ExpiresIn time.Duration
}

// Facade implements the three operations spec.md §4.5 names.
type Facade struct {
	g         *group.Params
	directory userdirectory.Directory
	engine    *protocol.Engine
	issuer    *auth.Issuer
	publisher *events.Publisher
	ttl       time.Duration
	log       logging.Logger
}

func New(
	g *group.Params,
	directory userdirectory.Directory,
	engine *protocol.Engine,
	issuer *auth.Issuer,
	publisher *events.Publisher,
	ttl time.Duration,
	log logging.Logger,
) *Facade {
	return &Facade{
		g:         g,
		directory: directory,
		engine:    engine,
		issuer:    issuer,
		publisher: publisher,
		ttl:       ttl,
		log:       log,
	}
}

// Register implements spec.md §4.5 Register.
func (f *Facade) Register(ctx context.Context, username, publicKeyYHex, salt string) error {
	y, err := group.DecodeHex(publicKeyYHex)
	if err != nil {
		return fmt.Errorf("%w: publicKeyY is not valid hex", common.ErrInvalidArgument)
	}
	if !f.g.IsValidElement(y) {
		return fmt.Errorf("%w: publicKeyY out of range", common.ErrInvalidArgument)
	}

	if _, err := f.directory.Create(ctx, username, y, salt); err != nil {
		return err
	}

	f.publisher.UserRegistered(ctx, username)
	return nil
}

// Challenge implements spec.md §4.5 Challenge, including the decoy-Y path
// for unregistered usernames.
func (f *Facade) Challenge(ctx context.Context, username, clientRHex string) (*ChallengeResult, error) {
	clientR, err := group.DecodeHex(clientRHex)
	if err != nil {
		return nil, fmt.Errorf("%w: clientR is not valid hex", common.ErrInvalidArgument)
	}

	y, err := f.lookupYForChallenge(ctx, username)
	if err != nil {
		return nil, err
	}

	ch, err := f.engine.IssueChallenge(ctx, username, clientR, y, f.ttl)
	if err != nil {
		return nil, err
	}

	return &ChallengeResult{ChallengeID: ch.ChallengeID, C: ch.C, P: ch.P, Q: ch.Q, G: ch.G}, nil
}

// lookupYForChallenge fetches Y with bounded-backoff retry since a
// directory read is idempotent (spec.md §7); an unregistered username
// synthesises a decoy instead of surfacing NotFound, so the response shape
// is identical either way (spec.md §4.5/§8 property 7).
func (f *Facade) lookupYForChallenge(ctx context.Context, username string) (*big.Int, error) {
	b := retry.WithMaxRetries(3, retry.NewExponential(20*time.Millisecond))

	var y *big.Int
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		rec, err := f.directory.GetByUsername(ctx, username)
		if err != nil {
			if err == common.ErrorNotFound {
				return err
			}
			return retry.RetryableError(fmt.Errorf("%w: %v", common.ErrDependencyUnavailable, err))
		}
		y = rec.PublicKeyY
		return nil
	})

	if err == nil {
		return y, nil
	}
	if err == common.ErrorNotFound {
		decoy, decoyErr := f.engine.DecoyY(ctx)
		if decoyErr != nil {
			return nil, decoyErr
		}
		return decoy, nil
	}
	return nil, err
}

// Verify implements spec.md §4.5 Verify.
func (f *Facade) Verify(ctx context.Context, challengeID, sHex, clientRHex, username string) (*VerifyResult, error) {
	s, err := group.DecodeHex(sHex)
	if err != nil {
		return nil, fmt.Errorf("%w: s is not valid hex", common.ErrInvalidArgument)
	}
	clientR, err := group.DecodeHex(clientRHex)
	if err != nil {
		return nil, fmt.Errorf("%w: clientR is not valid hex", common.ErrInvalidArgument)
	}

	rec, err := f.directory.GetByUsername(ctx, username)
	if err != nil {
		if err == common.ErrorNotFound {
			// No Y to verify against; treat uniformly as auth failure.
			f.publisher.LoginFailed(ctx, username, "unknown_user")
			return nil, common.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrDependencyUnavailable, err)
	}

	verifyErr := f.engine.VerifyProof(ctx, challengeID, s, clientR, username, rec.PublicKeyY)
	if verifyErr != nil {
		f.publisher.LoginFailed(ctx, username, reasonCode(verifyErr))
		return nil, verifyErr
	}

	go f.touchLastLoginBestEffort(username)

	token, expiresIn, err := f.issuer.Issue(username)
	if err != nil {
		return nil, fmt.Errorf("%w: token mint failed: %v", common.ErrDependencyUnavailable, err)
	}

	f.publisher.LoginSuccess(ctx, username)
	return &VerifyResult{Token: token, Username: username, ExpiresIn: expiresIn}, nil
}

// touchLastLoginBestEffort runs detached from the request's context since
// the update is asynchronous and its failure is logged, not propagated
// (spec.md §4.5).
func (f *Facade) touchLastLoginBestEffort(username string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.directory.TouchLastLogin(ctx, username, time.Now()); err != nil {
		f.log.Warn(ctx, "failed to update lastLoginAt", "username", username, "err", err)
	}
}

func reasonCode(err error) string {
	switch err {
	case common.ErrSessionNotFound:
		return "session_not_found"
	case common.ErrBindingMismatch:
		return "binding_mismatch"
	case common.ErrProofInvalid:
		return "proof_invalid"
	default:
		return "error"
	}
}
