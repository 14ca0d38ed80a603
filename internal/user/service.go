package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxIDLength 与 ledgers 表主键的长度一致。
const MaxIDLength = 64

// CreateProvisionalUser 生成一个新的用户ID (UUID v7)。
func CreateProvisionalUser() (string, error) {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成UUID v7: %w", err)
	}
	return newUUID.String(), nil
}

// IsValidUserID 检查用户ID是否只包含字母、数字、'-' 和 '_'，且长度合法。
func IsValidUserID(id string) bool {
	if id == "" || len(id) > MaxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// RegisterInput 是注册新账本的输入。ID 为空时自动生成。
type RegisterInput struct {
	ID       string
	Username string
	Email    *string
}

// Service 负责账本的创建与只读查询。
type Service struct {
	coord  *ledger.Coordinator
	policy *economy.Holder
}

func NewService(coord *ledger.Coordinator, policy *economy.Holder) *Service {
	return &Service{coord: coord, policy: policy}
}

// Register 按当前经济策略的初始资金创建一个新账本。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*ledger.Ledger, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		generated, err := CreateProvisionalUser()
		if err != nil {
			return nil, err
		}
		id = generated
	}
	if !IsValidUserID(id) {
		return nil, fmt.Errorf("%w: 用户ID %q 格式不正确", ledger.ErrInvalidRequest, id)
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = id
	}

	l := s.policy.Current().NewLedger(id, username)
	l.Email = in.Email
	if err := s.coord.Create(ctx, l); err != nil {
		return nil, err
	}
	log.Info().Str("user", id).Str("username", username).Msg("已创建新账本")
	return l, nil
}

// EnsureUser 在账本不存在时创建它，返回是否新建。
func (s *Service) EnsureUser(ctx context.Context, id, username string) (bool, error) {
	_, err := s.Register(ctx, RegisterInput{ID: id, Username: username})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ledger.ErrAlreadyExists):
		return false, nil
	default:
		return false, err
	}
}

// Profile 返回完整账本。
func (s *Service) Profile(ctx context.Context, id string) (*ledger.Ledger, error) {
	return s.coord.View(ctx, id)
}

// Funds 返回用户的三种货币余额。
func (s *Service) Funds(ctx context.Context, id string) (ledger.Funds, error) {
	return s.coord.Funds(ctx, id)
}
