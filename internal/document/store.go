package document

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignature 签名无效或已过期
var ErrInvalidSignature = errors.New("invalid or expired signature")

// Store 文档存储
// 按桶写入本地目录，下载通过 HMAC 签名的限时地址
type Store struct {
	root    string
	baseURL string
	secret  []byte
}

// NewStore 创建文档存储实例
func NewStore(root, baseURL, secret string) *Store {
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/"), secret: []byte(secret)}
}

// Upload 写入文档，返回存储键 bucket/filename
func (s *Store) Upload(data []byte, filename, mime, bucket string) (string, error) {
	if filename == "" || bucket == "" {
		return "", fmt.Errorf("filename and bucket are required")
	}
	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return bucket + "/" + filepath.Base(filename), nil
}

// Read 读取文档内容
func (s *Store) Read(key string) ([]byte, error) {
	bucket, name, ok := splitKey(key)
	if !ok {
		return nil, fmt.Errorf("malformed document key: %s", key)
	}
	return os.ReadFile(filepath.Join(s.root, bucket, name))
}

// SignedURL 生成限时签名下载地址
func (s *Store) SignedURL(key string, ttl time.Duration) (string, error) {
	if _, _, ok := splitKey(key); !ok {
		return "", fmt.Errorf("malformed document key: %s", key)
	}
	expires := time.Now().Add(ttl).Unix()
	sig := s.sign(key, expires)
	return fmt.Sprintf("%s/documents/%s?expires=%d&signature=%s",
		s.baseURL, key, expires, url.QueryEscape(sig)), nil
}

// Verify 校验签名与有效期
func (s *Store) Verify(key string, expires int64, signature string) error {
	if time.Now().Unix() > expires {
		return ErrInvalidSignature
	}
	expected := s.sign(key, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func (s *Store) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key + ":" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func splitKey(key string) (bucket, name string, ok bool) {
	parts := strings.SplitN(key, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", false
	}
	return parts[0], parts[1], true
}
