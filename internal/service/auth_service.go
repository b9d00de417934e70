package service

import (
	"errors"
	"log"
	"time"

	"snapvault-server/internal/common/httpx"
	"snapvault-server/internal/config"
	"snapvault-server/internal/db"
	"snapvault-server/internal/model"
	"snapvault-server/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput 注册请求的字段集合
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Company   string
}

// RegisterUser 执行用户注册并返回新用户与登录令牌。
func RegisterUser(input RegisterInput) (*model.User, string, error) {
	if ok, msg := utils.ValidateEmail(input.Email); !ok {
		return nil, "", httpx.NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(input.Password); !ok {
		return nil, "", httpx.NewValidationError(msg)
	}

	var count int64
	if err := db.DB.Model(&model.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		log.Printf("Register count error: %v\n", err)
		return nil, "", httpx.NewInternalError("注册失败，请稍后重试")
	}
	if count > 0 {
		return nil, "", httpx.NewConflictError("该邮箱已被注册")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", httpx.NewInternalError("密码加密失败")
	}

	newUser := model.User{
		Email:     input.Email,
		Password:  string(hashedPassword),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Company:   input.Company,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		// 并发注册同一邮箱时唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", httpx.NewConflictError("该邮箱已被注册")
		}
		log.Printf("Register create error: %v\n", err)
		return nil, "", httpx.NewInternalError("注册失败，请稍后重试")
	}

	token, err := IssueLoginToken(&newUser)
	if err != nil {
		return nil, "", err
	}

	return &newUser, token, nil
}

// LoginUser 执行登录鉴权并返回登录令牌。
// 未知邮箱与密码错误返回完全相同的提示，避免用户枚举。
func LoginUser(email, password string) (string, error) {
	var user model.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return "", httpx.NewUnauthorizedError("邮箱或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", httpx.NewUnauthorizedError("邮箱或密码错误")
	}

	return IssueLoginToken(&user)
}

// IssueLoginToken 为用户签发登录令牌。
func IssueLoginToken(user *model.User) (string, error) {
	cfg := config.Get()
	token, err := utils.GenerateLoginToken(user.ID, user.Email, time.Hour*time.Duration(cfg.JWT.ExpirationHours))
	if err != nil {
		log.Printf("Issue token error: %v\n", err)
		return "", httpx.NewInternalError("登录失败，请稍后重试")
	}
	return token, nil
}
