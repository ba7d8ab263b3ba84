package donation_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/webapi/common"
	"github.com/amirasaad/donation/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type DonationTestSuite struct {
	testutils.Suite
}

func (s *DonationTestSuite) decode(resp *http.Response) map[string]any {
	defer resp.Body.Close() //nolint: errcheck
	var body common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body.Data.(map[string]any)
	s.Require().True(ok, "response data should be an object")
	return data
}

func (s *DonationTestSuite) problem(resp *http.Response) common.ProblemDetails {
	defer resp.Body.Close() //nolint: errcheck
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

func (s *DonationTestSuite) TestSettle_CreatedThenReplayed() {
	s.SeedActiveFund(1000, 0)
	body := `{"amount":100,"transactionId":"upi-001","donorName":"Asha","purpose":"Food"}`

	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", body, "")
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	data := s.decode(resp)
	s.Equal(false, data["replayed"])
	donation := data["donation"].(map[string]any)
	s.Equal("Food", donation["purpose"])
	s.Equal("upi", donation["paymentMethod"])

	resp = s.MakeRequest(fiber.MethodPost, "/donations/settle", body, "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data = s.decode(resp)
	s.Equal(true, data["replayed"])

	s.Len(s.Store.Payments(), 1)
	s.Len(s.Store.Donations(), 1)
}

func (s *DonationTestSuite) TestSettle_AnonymousDefaults() {
	s.SeedActiveFund(1000, 0)

	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", `{"amount":25,"transactionId":"anon-1"}`, "")
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	data := s.decode(resp)
	donation := data["donation"].(map[string]any)
	donor := donation["donor"].(map[string]any)
	s.Equal("Anonymous", donor["name"])
	s.Equal("General", donation["purpose"])
	payment := data["payment"].(map[string]any)
	s.Nil(payment["userId"])
}

func (s *DonationTestSuite) TestSettle_RejectsInvalidAmounts() {
	s.SeedActiveFund(1000, 0)
	bodies := []string{
		`{"amount":0,"transactionId":"bad-1"}`,
		`{"amount":-5,"transactionId":"bad-2"}`,
		`{"transactionId":"bad-3"}`,
		`{"amount":10}`,
		`{"amount":10,"transactionId":"   "}`,
	}
	for _, body := range bodies {
		resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", body, "")
		s.Equal(fiber.StatusBadRequest, resp.StatusCode, body)
		s.Equal(domain.KindInvalidInput, s.problem(resp).Kind, body)
	}
	s.Empty(s.Store.Payments())
	s.Empty(s.Store.Donations())
}

func (s *DonationTestSuite) TestSettle_NoActiveFund() {
	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", `{"amount":10,"transactionId":"nf-1"}`, "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal(domain.KindNoActiveFund, s.problem(resp).Kind)
	s.Empty(s.Store.Payments())
}

func (s *DonationTestSuite) TestSettle_CompletesFundAtTarget() {
	f := s.SeedActiveFund(1000, 900)

	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", `{"amount":150,"transactionId":"big-1"}`, "")
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	data := s.decode(resp)
	fundData := data["fund"].(map[string]any)
	s.Equal("completed", fundData["status"])
	s.Equal(1050.0, fundData["currentAmount"])

	stored, ok := s.Store.Fund(f.ID)
	s.Require().True(ok)
	s.Equal(fund.StatusCompleted, stored.Status)
}

func (s *DonationTestSuite) TestSettle_AttributesAuthenticatedCaller() {
	s.SeedActiveFund(1000, 0)
	u := s.CreateTestUser()
	token := s.LoginUser(u)

	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", `{"amount":10,"transactionId":"auth-1"}`, token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	payment := s.decode(resp)["payment"].(map[string]any)
	s.Equal(u.ID.String(), payment["userId"])
}

func (s *DonationTestSuite) TestSettle_RejectsTokenOfUnknownUser() {
	s.SeedActiveFund(1000, 0)
	token := s.LoginUser(&dto.UserRead{ID: uuid.New(), Username: "ghost", Email: "ghost@example.com"})

	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", `{"amount":10,"transactionId":"ghost-1"}`, token)
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
	s.Empty(s.Store.Payments())
}

func (s *DonationTestSuite) TestSettle_MalformedEmailStillSettles() {
	s.SeedActiveFund(1000, 0)
	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle",
		`{"amount":10,"transactionId":"mail-1","email":"not-an-email"}`, "")
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	donation := s.decode(resp)["donation"].(map[string]any)
	donor := donation["donor"].(map[string]any)
	s.Empty(donor["email"])
}

func (s *DonationTestSuite) TestSettle_RejectsSubCentAmount() {
	s.SeedActiveFund(1000, 0)
	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", `{"amount":0.006,"transactionId":"cent-1"}`, "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal(domain.KindInvalidInput, s.problem(resp).Kind)
	s.Empty(s.Store.Payments())
}

func (s *DonationTestSuite) TestSettle_RejectsInvalidToken() {
	s.SeedActiveFund(1000, 0)
	resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", `{"amount":10,"transactionId":"tok-1"}`, "not-a-jwt")
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
	s.Empty(s.Store.Payments())
}

func (s *DonationTestSuite) TestQueries() {
	s.SeedActiveFund(1000, 0)
	for i := range 3 {
		body := fmt.Sprintf(`{"amount":%d,"transactionId":"q-%d","purpose":"Books"}`, 10+i, i)
		resp := s.MakeRequest(fiber.MethodPost, "/donations/settle", body, "")
		s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	}
	token := s.LoginUser(s.CreateTestUser())

	resp := s.MakeRequest(fiber.MethodGet, "/donations/q-1", "", "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest(fiber.MethodGet, "/donations/q-1", "", token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	detail := s.decode(resp)
	s.Equal("q-1", detail["donation"].(map[string]any)["transactionId"])
	s.Equal("q-1", detail["payment"].(map[string]any)["transactionId"])

	resp = s.MakeRequest(fiber.MethodGet, "/payments/q-2", "", token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Equal(12.0, s.decode(resp)["amount"])

	resp = s.MakeRequest(fiber.MethodGet, "/donations/missing", "", token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)

	resp = s.MakeRequest(fiber.MethodGet, "/donations?purpose=books&pageSize=2", "", token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	page := s.decode(resp)
	s.Equal(3.0, page["total"])
	s.Len(page["items"], 2)

	resp = s.MakeRequest(fiber.MethodGet, "/donations?fundId=nope", "", token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func TestDonationTestSuite(t *testing.T) {
	suite.Run(t, new(DonationTestSuite))
}
