package hwp5

import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// 배포용 문서 데이터 (HWPTAG_DISTRIBUTE_DOC_DATA) 크기
const distributeDataSize = 256

// msvcRand는 MSVC rand()와 같은 선형 합동 생성기
type msvcRand struct {
	state uint32
}

func (r *msvcRand) next() uint32 {
	r.state = r.state*214013 + 2531011
	return (r.state >> 16) & 0x7FFF
}

// scramble XORs the 256-byte block with the rand() sequence seeded by its first
// four bytes. Applying it twice restores the input.
func scramble(data []byte) {
	r := msvcRand{state: binary.LittleEndian.Uint32(data)}
	var a byte
	n := 0
	for i := range distributeDataSize {
		if n == 0 {
			a = byte(r.next() & 0xFF)
			n = int(r.next()&0x0F) + 1
		}
		if i >= 4 {
			data[i] ^= a
		}
		n--
	}
}

func distributeKey(plain []byte) []byte {
	off := 4 + int(plain[0]&0x0F)
	return plain[off : off+16]
}

// DecryptDistribution strips the DISTRIBUTE_DOC_DATA record from a ViewText
// stream and decrypts the remainder with AES-128-ECB.
func DecryptDistribution(stream []byte) ([]byte, error) {
	rr := NewRecordReader(stream)
	rec, err := rr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: distribution header: %v", ErrCorruptStream, err)
	}
	if rec.TagID != TagDistributeDocData || len(rec.Data) != distributeDataSize {
		return nil, fmt.Errorf("%w: expected DISTRIBUTE_DOC_DATA, got %s (%d bytes)",
			ErrCorruptStream, TagName(rec.TagID), len(rec.Data))
	}

	plain := clone(rec.Data)
	scramble(plain)
	block, err := aes.NewCipher(distributeKey(plain))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}

	body := stream[rr.Offset():]
	n := len(body) - len(body)%aes.BlockSize
	out := make([]byte, n)
	for off := 0; off < n; off += aes.BlockSize {
		block.Decrypt(out[off:], body[off:off+aes.BlockSize])
	}
	return out, nil
}

// EncryptDistribution builds a ViewText stream: a fresh DISTRIBUTE_DOC_DATA
// record followed by body encrypted with its key. body is zero padded to the
// AES block size.
func EncryptDistribution(body []byte) ([]byte, error) {
	plain := make([]byte, distributeDataSize)
	if _, err := rand.Read(plain); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(distributeKey(plain))
	if err != nil {
		return nil, err
	}

	padded := make([]byte, (len(body)+aes.BlockSize-1)/aes.BlockSize*aes.BlockSize)
	copy(padded, body)
	for off := 0; off < len(padded); off += aes.BlockSize {
		block.Encrypt(padded[off:], padded[off:off+aes.BlockSize])
	}

	scrambled := clone(plain)
	scramble(scrambled)
	var buf bytes.Buffer
	writeRecord(&buf, TagDistributeDocData, 0, scrambled)
	buf.Write(padded)
	return buf.Bytes(), nil
}
