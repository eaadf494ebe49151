// Copyright (c) 2025, HostPulse Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remote

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/time/rate"

	"github.com/probelab/hostpulse/pkg/defaults"
	"github.com/probelab/hostpulse/pkg/errors"
)

// Config carries everything needed to reach the monitored host. It is
// an explicit value passed at construction; the package keeps no
// process-wide state.
type Config struct {
	Host           string        `json:"host" yaml:"host"`
	Port           int           `json:"port,omitempty" yaml:"port,omitempty"`
	User           string        `json:"user" yaml:"user"`
	KeyPath        string        `json:"key_path,omitempty" yaml:"key_path,omitempty"`
	Password       string        `json:"-" yaml:"-"`
	KnownHostsPath string        `json:"known_hosts_path,omitempty" yaml:"known_hosts_path,omitempty"`
	DialTimeout    time.Duration `json:"dial_timeout,omitempty" yaml:"dial_timeout,omitempty"`
	CommandTimeout time.Duration `json:"command_timeout,omitempty" yaml:"command_timeout,omitempty"`
}

// Validate checks that the configuration can produce a usable executor.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New(errors.ErrCodeInvalidInput, "remote host cannot be empty")
	}
	if c.User == "" {
		return errors.New(errors.ErrCodeInvalidInput, "remote user cannot be empty")
	}
	if c.KeyPath == "" && c.Password == "" {
		return errors.New(errors.ErrCodeInvalidInput, "either key path or password must be configured")
	}
	return nil
}

func (c Config) addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// Executor runs non-interactive commands on the configured host,
// opening a fresh SSH connection per invocation.
type Executor struct {
	cfg     Config
	limiter *rate.Limiter
}

// NewExecutor validates the configuration and builds an executor.
func NewExecutor(cfg Config) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaults.SSHDialTimeout
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = defaults.RemoteCommandTimeout
	}
	return &Executor{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(defaults.RemoteCommandsPerSecond), defaults.RemoteCommandBurst),
	}, nil
}

// Run executes a single command on the remote host and returns its
// captured standard output. The command must be non-interactive and
// complete within the configured command timeout.
func (e *Executor) Run(ctx context.Context, command string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(errors.ErrCodeCommand, "canceled before execution", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.CommandTimeout)
	defer cancel()

	client, err := e.dial(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeConnection, "failed to open session", err,
			map[string]any{"host": e.cfg.Host})
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	slog.Debug("running remote command", "host", e.cfg.Host, "command", command)

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		// Best effort: tear down the session so the goroutine unblocks.
		_ = session.Close()
		<-done
		return "", errors.WrapWithContext(errors.ErrCodeCommand, "remote command timed out", ctx.Err(),
			map[string]any{"host": e.cfg.Host, "command": command})
	case err = <-done:
	}

	if err != nil {
		cmdCtx := map[string]any{
			"host":    e.cfg.Host,
			"command": command,
			"stderr":  stderr.String(),
		}
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			cmdCtx["exit_status"] = exitErr.ExitStatus()
			return "", errors.WrapWithContext(errors.ErrCodeCommand,
				fmt.Sprintf("remote command exited %d", exitErr.ExitStatus()), err, cmdCtx)
		}
		return "", errors.WrapWithContext(errors.ErrCodeCommand, "remote command failed", err, cmdCtx)
	}

	return stdout.String(), nil
}

// dial establishes the SSH connection, honoring the context deadline.
func (e *Executor) dial(ctx context.Context) (*ssh.Client, error) {
	auth, err := e.authMethods()
	if err != nil {
		return nil, err
	}

	hostKeys, err := e.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	clientCfg := &ssh.ClientConfig{
		User:            e.cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         e.cfg.DialTimeout,
	}

	dialer := net.Dialer{Timeout: e.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", e.cfg.addr())
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConnection, "host unreachable", err,
			map[string]any{"addr": e.cfg.addr()})
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, e.cfg.addr(), clientCfg)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeConnection, "SSH handshake failed", err,
			map[string]any{"addr": e.cfg.addr(), "user": e.cfg.User})
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

// authMethods builds the auth method list: key first, password fallback.
func (e *Executor) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if e.cfg.KeyPath != "" {
		key, err := os.ReadFile(e.cfg.KeyPath)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeConnection, "failed to read private key", err,
				map[string]any{"key_path": e.cfg.KeyPath})
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeConnection, "failed to parse private key", err,
				map[string]any{"key_path": e.cfg.KeyPath})
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if e.cfg.Password != "" {
		methods = append(methods, ssh.Password(e.cfg.Password))
	}

	return methods, nil
}

func (e *Executor) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if e.cfg.KnownHostsPath == "" {
		slog.Warn("no known_hosts configured, accepting any host key", "host", e.cfg.Host)
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // trusted-network fallback, warned above
	}
	cb, err := knownhosts.New(e.cfg.KnownHostsPath)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConnection, "failed to load known_hosts", err,
			map[string]any{"known_hosts_path": e.cfg.KnownHostsPath})
	}
	return cb, nil
}
