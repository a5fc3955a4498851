// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is one authentication-relevant occurrence.
type SecurityEvent struct {
	// Event names what happened: login_success, login_failure, token_rejected, user_created.
	Event      string
	UserURI    string
	Email      string
	Repository string
	Token      string
	IPAddress  string
	Success    bool
	Reason     string
}

// SecurityLogger writes authentication events with credentials masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger returns a SecurityLogger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// NewSecurityLoggerWithLogger returns a SecurityLogger writing to logger.
//
//nolint:gocritic // zerolog.Logger is passed by value by design
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent writes ev. Failures are logged at warn level.
func (l *SecurityLogger) LogEvent(ev *SecurityEvent) {
	e := l.logger.Info()
	status := "success"
	if !ev.Success {
		e = l.logger.Warn()
		status = "failed"
	}
	e = e.Str("event", ev.Event).Str("status", status)

	if ev.UserURI != "" {
		e = e.Str("user", SanitizeLogValue(ev.UserURI))
	}
	if ev.Email != "" {
		e = e.Str("email", SanitizeEmail(ev.Email))
	}
	if ev.Repository != "" {
		e = e.Str("repository", SanitizeLogValue(ev.Repository))
	}
	if ev.Token != "" {
		e = e.Str("token", SanitizeToken(ev.Token))
	}
	if ev.IPAddress != "" {
		e = e.Str("ip", ev.IPAddress)
	}
	if ev.Reason != "" && !ev.Success {
		e = e.Str("reason", truncateString(SanitizeLogValue(ev.Reason), 200))
	}
	e.Msg("security event")
}

// LogLoginSuccess records a successful login.
func (l *SecurityLogger) LogLoginSuccess(userURI, email, repository, ip string) {
	l.LogEvent(&SecurityEvent{
		Event: "login_success", UserURI: userURI, Email: email,
		Repository: repository, IPAddress: ip, Success: true,
	})
}

// LogLoginFailure records a rejected login.
func (l *SecurityLogger) LogLoginFailure(email, repository, ip, reason string) {
	l.LogEvent(&SecurityEvent{
		Event: "login_failure", Email: email, Repository: repository,
		IPAddress: ip, Reason: reason,
	})
}

// LogTokenRejected records a request refused by the token check.
func (l *SecurityLogger) LogTokenRejected(token, ip, reason string) {
	l.LogEvent(&SecurityEvent{Event: "token_rejected", Token: token, IPAddress: ip, Reason: reason})
}

// SanitizeToken keeps the first and last four characters of a token.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeEmail keeps the first two characters of the local part.
//
//	"maria.silva@ueg.br" -> "ma***@ueg.br"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
