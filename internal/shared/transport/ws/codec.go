package ws

import (
	"encoding/json"
	"errors"

	"github.com/go-think/openssl"

	"Skirmish/internal/shared/security"
)

var errNoSecret = errors.New("ws secret key not negotiated")

// Codec 负责一帧的编解码：JSON → AES-CBC（key 兼作 iv）→ zlib。
// needSecret 为 false 时跳过加密，只压缩；握手帧永远只压缩。
type Codec struct {
	needSecret bool
}

func NewCodec(needSecret bool) Codec {
	return Codec{needSecret: needSecret}
}

func (c Codec) Encode(body *RespBody, key string) ([]byte, error) {
	return c.seal(body, key, c.needSecret)
}

func (c Codec) EncodePlain(body *RespBody) ([]byte, error) {
	return c.seal(body, "", false)
}

func (c Codec) Decode(frame []byte, key string) (*ReqBody, error) {
	body := &ReqBody{}
	if err := c.open(frame, key, c.needSecret, body); err != nil {
		return nil, err
	}
	return body, nil
}

// EncodeRequest 客户端侧编码，cmd 工具和测试使用。
func (c Codec) EncodeRequest(body *ReqBody, key string) ([]byte, error) {
	return c.seal(body, key, c.needSecret)
}

// DecodeResponse 客户端侧解码；key 为空时按明文解（握手帧）。
func (c Codec) DecodeResponse(frame []byte, key string) (*RespBody, error) {
	body := &RespBody{}
	if err := c.open(frame, key, c.needSecret && key != "", body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c Codec) seal(v any, key string, encrypt bool) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if encrypt {
		if key == "" {
			return nil, errNoSecret
		}
		if data, err = security.AesCBCEncrypt(data, []byte(key), []byte(key), openssl.ZEROS_PADDING); err != nil {
			return nil, err
		}
	}
	return security.Zip(data)
}

func (c Codec) open(frame []byte, key string, decrypt bool, v any) error {
	data, err := security.UnZip(frame)
	if err != nil {
		return err
	}
	if decrypt {
		if key == "" {
			return errNoSecret
		}
		if data, err = security.AesCBCDecrypt(data, []byte(key), []byte(key), openssl.ZEROS_PADDING); err != nil {
			return err
		}
	}
	return json.Unmarshal(data, v)
}
