package keyring

import (
	"bytes"
	"crypto/aes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/playmatatu/billiards/internal/billiards"
)

func TestFormatScalar(t *testing.T) {
	cases := map[float64]string{
		0:                  "0.0",
		1:                  "1.0",
		0.5:                "0.5",
		0.0001:             "0.0001",
		0.00001:            "1e-05",
		0.7853981633974483: "0.7853981633974483",
	}
	for in, want := range cases {
		if got := formatScalar(in); got != want {
			t.Errorf("formatScalar(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCFB8KnownAnswer(t *testing.T) {
	// AES-128 CFB8 example vector from NIST SP 800-38A.
	key, _ := hex.DecodeString("2b7e151628aed2a6abf7158809cf4f3c")
	iv, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	pt, _ := hex.DecodeString("6bc1bee22e409f96e93d7e117393172aae2d")
	want, _ := hex.DecodeString("3b79424c9c0dd436bace9e0ed4586a4f32b9")

	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	ct := make([]byte, len(pt))
	newCFB8(block, iv, false).XORKeyStream(ct, pt)
	if !bytes.Equal(ct, want) {
		t.Fatalf("ciphertext = %x, want %x", ct, want)
	}

	back := make([]byte, len(ct))
	newCFB8(block, iv, true).XORKeyStream(back, ct)
	if !bytes.Equal(back, pt) {
		t.Errorf("decrypt = %x, want %x", back, pt)
	}
}

func TestScalarInRange(t *testing.T) {
	k := New(40)
	for _, angle := range []float64{0.1, 0.7, 1.3, 2.9, 4.4} {
		s, err := k.Scalar(angle)
		if err != nil {
			t.Fatalf("Scalar(%v): %v", angle, err)
		}
		if s < 0 || s > 1 {
			t.Errorf("Scalar(%v) = %v outside [0,1]", angle, s)
		}
	}
}

func TestKeyDeterministic(t *testing.T) {
	k := New(40)
	a, err := k.Key(0.6)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := k.Key(0.6)
	if !bytes.Equal(a, b) || len(a) != 32 {
		t.Errorf("keys differ or wrong length: %x vs %x", a, b)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	k := New(40)
	msg := []byte("the quick brown fox jumps over the lazy dog, twice over for good measure")

	env, err := k.Encrypt(0.3, msg)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(env.Ciphertext, msg) {
		t.Fatal("ciphertext equals plaintext")
	}

	parsed, err := ParseEnvelope(env.String())
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	got, err := k.Decrypt(parsed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("Decrypt = %q, want %q", got, msg)
	}
}

func TestDecryptWrongAngle(t *testing.T) {
	k := New(40)
	msg := []byte(strings.Repeat("billiards ", 8))
	env, err := k.Encrypt(0.3, msg)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	env.Angle = 1.1
	if _, err := k.Decrypt(env); !errors.Is(err, ErrBadKey) {
		t.Errorf("err = %v, want ErrBadKey", err)
	}
}

func TestParseEnvelopeMalformed(t *testing.T) {
	cases := []string{
		"",
		"0.5\n00\n",
		"abc\n000102030405060708090a0b0c0d0e0f\n00\n",
		"0.5\n0001\n00\n",
		"0.5\n000102030405060708090a0b0c0d0e0f\nzz\n",
	}
	for _, c := range cases {
		if _, err := ParseEnvelope(c); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseEnvelope(%q) err = %v, want ErrMalformed", c, err)
		}
	}
}

func TestReferenceStadiumWidth(t *testing.T) {
	// 2 + 1e-15 lands two ulps above 2.
	want := math.Nextafter(math.Nextafter(2, 3), 3)
	if got := New(0).Table.Width; got != want {
		t.Errorf("reference width = %.17g, want %.17g", got, want)
	}
	if New(0).Table.Height != 1 {
		t.Errorf("reference height = %v, want 1", New(0).Table.Height)
	}
}

func TestLaunchBallUsesRadiansDirectly(t *testing.T) {
	for _, angle := range []float64{0.1, 0.4, 1.3, 2.9, 5.8} {
		b := LaunchBall(angle)
		if b.Position != (billiards.Vec2{}) {
			t.Errorf("angle %v: start %+v, want origin", angle, b.Position)
		}
		if b.Velocity.X != math.Cos(angle) || b.Velocity.Y != math.Sin(angle) {
			t.Errorf("angle %v: velocity %+v, want (cos, sin) of the angle", angle, b.Velocity)
		}
	}
}

func TestScalarMatchesDirectRun(t *testing.T) {
	k := New(200)
	table := billiards.Stadium{Width: 2 + 1e-15, Height: 1}
	for _, angle := range []float64{0.1, 0.4, 2.2, 5.8} {
		got, err := k.Scalar(angle)
		if err != nil {
			t.Fatalf("Scalar(%v): %v", angle, err)
		}
		ball := billiards.Ball{Velocity: billiards.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}}
		res, err := billiards.Run(ball, table, 200, true)
		if err != nil {
			t.Fatalf("Run(%v): %v", angle, err)
		}
		want := res.PhaseSpace[len(res.PhaseSpace)-1].S / table.Perimeter()
		if got != want {
			t.Errorf("Scalar(%v) = %.17g, want %.17g", angle, got, want)
		}
	}
}

func TestAxisKeyIsPinned(t *testing.T) {
	// Launched along +x the ball alternates between the right cap (s at the
	// end of the coordinate) and the left cap (half way round). After an even
	// number of reflections it rests on the left cap.
	k := New(DefaultReflections)
	s, err := k.Scalar(0)
	if err != nil {
		t.Fatalf("Scalar(0): %v", err)
	}
	if math.Abs(s-0.5) > 1e-9 {
		t.Fatalf("Scalar(0) = %.17g, want 0.5", s)
	}
	odd, err := Scalar(k.Table, 0, 7)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(odd-1) > 1e-9 {
		t.Errorf("Scalar(0) after 7 reflections = %.17g, want 1", odd)
	}

	key, err := k.Key(0)
	if err != nil {
		t.Fatal(err)
	}
	want := sha256.Sum256([]byte(formatScalar(s)))
	if !bytes.Equal(key, want[:]) {
		t.Errorf("Key(0) = %x, want %x", key, want)
	}
}
