package keyring

import "crypto/cipher"

// cfb8 is CFB mode with an 8-bit segment, the default of common Python AES
// bindings. crypto/cipher only ships full-block CFB.
type cfb8 struct {
	block   cipher.Block
	reg     []byte
	out     []byte
	decrypt bool
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) cipher.Stream {
	reg := make([]byte, len(iv))
	copy(reg, iv)
	return &cfb8{block: block, reg: reg, out: make([]byte, block.BlockSize()), decrypt: decrypt}
}

func (x *cfb8) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("keyring: output smaller than input")
	}
	for i, b := range src {
		x.block.Encrypt(x.out, x.reg)
		c := b ^ x.out[0]
		feed := c
		if x.decrypt {
			feed = b
		}
		copy(x.reg, x.reg[1:])
		x.reg[len(x.reg)-1] = feed
		dst[i] = c
	}
}
