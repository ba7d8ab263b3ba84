package user_test

import (
	"testing"

	"github.com/amirasaad/donation/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	testutils.Suite
}

func (s *UserTestSuite) TestCreateUser() {
	resp := s.MakeRequest(fiber.MethodPost, "/user", `{"username":"donor1","email":"donor1@example.com","password":"password123"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusCreated, resp.StatusCode)
}

func (s *UserTestSuite) TestCreateUser_Invalid() {
	resp := s.MakeRequest(fiber.MethodPost, "/user", `{"username":"d","email":"nope","password":"1"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *UserTestSuite) TestCreateUser_Duplicate() {
	body := `{"username":"donor2","email":"donor2@example.com","password":"password123"}`
	resp := s.MakeRequest(fiber.MethodPost, "/user", body, "")
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodPost, "/user", body, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

func (s *UserTestSuite) TestGetUser_OnlySelf() {
	u := s.CreateTestUser()
	other := s.CreateTestUser()
	token := s.LoginUser(u)

	resp := s.MakeRequest(fiber.MethodGet, "/user/"+u.ID.String(), "", token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodGet, "/user/"+other.ID.String(), "", token)
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestUserTestSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}
