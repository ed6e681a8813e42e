package utils

import (
	"crypto/rand"
	"math/big"
)

var letters = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// RandSeq 生成 n 位字母数字随机串，用作 ws 握手下发的 AES 密钥。
func RandSeq(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	limit := big.NewInt(int64(len(letters)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			idx = big.NewInt(int64(i % len(letters)))
		}
		b[i] = letters[idx.Int64()]
	}
	return string(b)
}
