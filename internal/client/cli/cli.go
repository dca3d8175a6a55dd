// Package cli is the interactive demo client for the zero-knowledge
// authentication service: it never sends the secret scalar x over the
// wire, only the derived public key Y, the per-session commitment R, and
// the proof s.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dkarasev/zkid/internal/client/api"
	"github.com/dkarasev/zkid/internal/common"
	"github.com/dkarasev/zkid/internal/group"
	"github.com/dkarasev/zkid/internal/randx"
)

type App struct {
	reader *bufio.Reader
	client *api.Client
	g      *group.Params
	rnd    *randx.Source
}

func New(baseURL string) *App {
	g := group.Default()
	return &App{
		reader: bufio.NewReader(os.Stdin),
		client: api.New(baseURL),
		g:      g,
		rnd:    randx.New(g),
	}
}

func (a *App) readUsername() (string, error) {
	fmt.Println("Enter username")
	line, err := a.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads the secret scalar x as hex from the terminal without
// echoing it, following the teacher's password-entry pattern.
func (a *App) readSecret() (*big.Int, error) {
	fmt.Println("Enter secret scalar x (hex)")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(raw)
	fmt.Println()
	return group.DecodeHex(strings.TrimSpace(string(raw)))
}

// Register derives Y = g^x from the secret scalar and registers it.
func (a *App) Register(_ context.Context) error {
	username, err := a.readUsername()
	if err != nil {
		return err
	}
	x, err := a.readSecret()
	if err != nil {
		return err
	}

	y := a.g.ExpG(x)
	if err := a.client.Register(username, group.EncodeHex(y), ""); err != nil {
		return err
	}

	fmt.Println("Registered.")
	return nil
}

// Login runs a full challenge/verify round trip using a fresh nonce r.
func (a *App) Login(_ context.Context) error {
	username, err := a.readUsername()
	if err != nil {
		return err
	}
	x, err := a.readSecret()
	if err != nil {
		return err
	}

	r, err := a.rnd.Scalar()
	if err != nil {
		return err
	}
	R := a.g.ExpG(r)

	ch, err := a.client.Challenge(username, group.EncodeHex(R))
	if err != nil {
		return err
	}

	c, err := group.DecodeHex(ch.C)
	if err != nil {
		return err
	}
	s := new(big.Int).Mod(new(big.Int).Add(r, new(big.Int).Mul(c, x)), a.g.Q())

	resp, err := a.client.Verify(ch.ChallengeID, group.EncodeHex(s), group.EncodeHex(R), username)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s. Token: %s %s (expires in %ds)\n", resp.Username, resp.Type, resp.Token, resp.ExpiresIn)
	return nil
}
