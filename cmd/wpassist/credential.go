package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/vampirenirmal/wpassist/internal/agent"
)

// credential resolves the provider key: --api-key, then the provider's
// environment variable, then a hidden prompt when a terminal is attached.
// An unresolved key is returned empty and the invoker reports it.
func (a *app) credential() (agent.Secret, error) {
	if !a.cfg.AI.RequiresCredential() {
		return "", nil
	}
	if key := strings.TrimSpace(a.apiKey); key != "" {
		return agent.Secret(key), nil
	}
	if key := a.cfg.AI.LookupCredential(); key != "" {
		return agent.Secret(key), nil
	}
	if a.promptKey == nil {
		return "", nil
	}

	key, err := a.promptKey(fmt.Sprintf("%s API key (%s is not set): ", a.cfg.AI.Provider, a.cfg.AI.CredentialEnv()))
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return agent.Secret(strings.TrimSpace(key)), nil
}

// terminalPrompt reads a key from stdin without echo. It returns "" when
// stdin is not a terminal.
func terminalPrompt(w io.Writer) func(string) (string, error) {
	return func(label string) (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", nil
		}

		fmt.Fprint(w, label)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
