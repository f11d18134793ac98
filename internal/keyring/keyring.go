// Package keyring derives symmetric keys from billiard trajectories on a
// Bunimovich stadium and uses them to seal short messages with AES in 8-bit CFB mode.
package keyring

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/playmatatu/billiards/internal/billiards"
)

// Reference table and run length used for key derivation. The width sits two
// ulps above 2 so that keys match envelopes sealed by earlier tooling.
const (
	StadiumWidth       = 2 + 1e-15
	StadiumHeight      = 1.0
	DefaultReflections = 1000
)

var (
	// ErrBadKey means the ciphertext decrypted to something that is not text,
	// almost always because the launch angle was wrong.
	ErrBadKey    = errors.New("keyring: decrypted data is not valid UTF-8")
	ErrMalformed = errors.New("keyring: malformed envelope")
	ErrNoPhase   = errors.New("keyring: run produced no phase-space samples")
)

// Keyring holds the table and run length keys are derived from.
type Keyring struct {
	Table       billiards.Stadium
	Reflections int
}

// New returns a Keyring on the reference stadium. reflections <= 0 selects
// DefaultReflections.
func New(reflections int) *Keyring {
	if reflections <= 0 {
		reflections = DefaultReflections
	}
	return &Keyring{
		Table:       billiards.Stadium{Width: StadiumWidth, Height: StadiumHeight},
		Reflections: reflections,
	}
}

// Scalar runs a ball from the origin at angle radians and returns the last
// arc length normalised by the perimeter, in [0, 1]. The velocity is built
// from the radian angle directly; a detour through degrees moves it by an
// ulp, which the chaotic stadium amplifies into a different key.
func Scalar(t billiards.Table, angle float64, reflections int) (float64, error) {
	res, err := billiards.Run(LaunchBall(angle), t, reflections, true)
	if err != nil {
		return 0, err
	}
	if len(res.PhaseSpace) == 0 {
		return 0, ErrNoPhase
	}
	return res.PhaseSpace[len(res.PhaseSpace)-1].S / t.Perimeter(), nil
}

// LaunchBall is the key-derivation ball: at the origin, unit speed, heading
// angle radians.
func LaunchBall(angle float64) billiards.Ball {
	return billiards.Ball{Velocity: billiards.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}}
}

// Scalar is the unhashed key for angle.
func (k *Keyring) Scalar(angle float64) (float64, error) {
	return Scalar(k.Table, angle, k.Reflections)
}

// Key is the 32-byte AES key for angle: SHA-256 of the scalar's shortest
// decimal form.
func (k *Keyring) Key(angle float64) ([]byte, error) {
	s, err := k.Scalar(angle)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	sum := sha256.Sum256([]byte(formatScalar(s)))
	return sum[:], nil
}

// Envelope is a sealed message. Its text form is three lines: the angle in
// radians, the IV in hex and the ciphertext in hex.
type Envelope struct {
	Angle      float64
	IV         []byte
	Ciphertext []byte
}

func (e Envelope) String() string {
	return fmt.Sprintf("%s\n%s\n%s\n", formatScalar(e.Angle), hex.EncodeToString(e.IV), hex.EncodeToString(e.Ciphertext))
}

// ParseEnvelope reads the three-line text form.
func ParseEnvelope(text string) (Envelope, error) {
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\n")
	if len(lines) < 3 {
		return Envelope{}, fmt.Errorf("%w: want 3 lines, got %d", ErrMalformed, len(lines))
	}
	angle, err := strconv.ParseFloat(strings.TrimSpace(lines[0]), 64)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: angle: %v", ErrMalformed, err)
	}
	iv, err := hex.DecodeString(strings.TrimSpace(lines[1]))
	if err != nil || len(iv) != aes.BlockSize {
		return Envelope{}, fmt.Errorf("%w: iv", ErrMalformed)
	}
	ct, err := hex.DecodeString(strings.TrimSpace(lines[2]))
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: ciphertext: %v", ErrMalformed, err)
	}
	return Envelope{Angle: angle, IV: iv, Ciphertext: ct}, nil
}

// Encrypt seals plaintext under the key for angle (radians) with a random IV.
func (k *Keyring) Encrypt(angle float64, plaintext []byte) (Envelope, error) {
	key, err := k.Key(angle)
	if err != nil {
		return Envelope{}, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return Envelope{}, err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return Envelope{}, fmt.Errorf("generate iv: %w", err)
	}
	ct := make([]byte, len(plaintext))
	newCFB8(block, iv, false).XORKeyStream(ct, plaintext)
	return Envelope{Angle: angle, IV: iv, Ciphertext: ct}, nil
}

// Decrypt opens env. It returns ErrBadKey when the result is not UTF-8 text.
func (k *Keyring) Decrypt(env Envelope) ([]byte, error) {
	if len(env.IV) != aes.BlockSize {
		return nil, fmt.Errorf("%w: iv length %d", ErrMalformed, len(env.IV))
	}
	key, err := k.Key(env.Angle)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	pt := make([]byte, len(env.Ciphertext))
	newCFB8(block, env.IV, true).XORKeyStream(pt, env.Ciphertext)
	if !utf8.Valid(pt) {
		return nil, ErrBadKey
	}
	return pt, nil
}

// formatScalar renders f the way a Python float prints: shortest round-trip
// digits, with a trailing ".0" on integral values.
func formatScalar(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
