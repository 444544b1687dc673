// Package logid generates identifiers that tie together the log lines of one
// request across processes.
//
// An id is Version, the unix time in milliseconds, the local address as 32
// hex digits (IPv4 addresses are IPv6-mapped) and 8 random hex digits.
package logid

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Version prefixes every id produced by this package.
const Version = "01"

const (
	addrLen   = 32
	suffixLen = 8
)

// ErrMalformed is returned by Parse for strings that are not log ids.
var ErrMalformed = errors.New("logid: malformed id")

// The address is looked up once. Dialing UDP only selects a route; no packet
// is sent.
var localAddr = sync.OnceValue(func() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return net.IPv6zero
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.To16() == nil {
		return net.IPv6zero
	}
	return addr.IP.To16()
})

// New returns a fresh id for the current time.
func New() string {
	u := uuid.New()
	return format(time.Now(), localAddr(), u[:suffixLen/2])
}

func format(now time.Time, ip net.IP, random []byte) string {
	var b strings.Builder
	b.Grow(len(Version) + 13 + addrLen + suffixLen)
	b.WriteString(Version)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteString(hex.EncodeToString(ip.To16()))
	b.WriteString(hex.EncodeToString(random))
	return b.String()
}

// ID is a decoded log id.
type ID struct {
	Time time.Time
	Addr net.IP
}

// Parse decodes an id produced by New.
func Parse(s string) (ID, error) {
	rest, ok := strings.CutPrefix(s, Version)
	if !ok || len(rest) <= addrLen+suffixLen {
		return ID{}, ErrMalformed
	}
	msPart := rest[:len(rest)-addrLen-suffixLen]
	addrPart := rest[len(msPart) : len(msPart)+addrLen]
	suffix := rest[len(msPart)+addrLen:]

	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil || ms < 0 {
		return ID{}, ErrMalformed
	}
	addr, err := hex.DecodeString(addrPart)
	if err != nil {
		return ID{}, ErrMalformed
	}
	if _, err := hex.DecodeString(suffix); err != nil {
		return ID{}, ErrMalformed
	}
	return ID{Time: time.UnixMilli(ms), Addr: net.IP(addr)}, nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored in ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Attr is the slog attribute under which ids are logged.
func Attr(id string) slog.Attr {
	return slog.String("log_id", id)
}
