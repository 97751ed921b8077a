package plaid

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/plaid/plaid-go/v41/plaid"

	"fintrack-server/src/linking"
	"fintrack-server/src/models"
)

const fallbackInstitutionName = "Connected Bank"

func (c *Client) CreateLinkToken(ctx context.Context, req linking.LinkTokenRequest) (session models.LinkSession, err error) {
	defer observe(ctx, "link_token_create", time.Now(), &err)

	products, err := toProducts(req.Products)
	if err != nil {
		return models.LinkSession{}, linking.InvalidRequest(err.Error())
	}
	countryCodes, err := toCountryCodes(req.CountryCodes)
	if err != nil {
		return models.LinkSession{}, linking.InvalidRequest(err.Error())
	}

	user := plaid.LinkTokenCreateRequestUser{
		ClientUserId: strconv.FormatInt(req.UserID, 10),
	}
	request := plaid.NewLinkTokenCreateRequest(c.clientName, "en", countryCodes)
	request.SetUser(user)
	request.SetProducts(products)
	if req.WebhookURL != "" {
		request.SetWebhook(req.WebhookURL)
	}

	resp, httpResp, err := c.api.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		return models.LinkSession{}, classify("link token create", httpResp, err)
	}
	if resp.GetLinkToken() == "" {
		return models.LinkSession{}, linking.UpstreamUnavailable("Aggregator returned an empty link token", nil)
	}

	return models.LinkSession{
		Token:      resp.GetLinkToken(),
		Expiration: resp.GetExpiration(),
	}, nil
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (exchange *models.Exchange, err error) {
	defer observe(ctx, "public_token_exchange", time.Now(), &err)

	exchangeReq := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	exchangeResp, httpResp, err := c.api.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*exchangeReq).Execute()
	if err != nil {
		return nil, classify("public token exchange", httpResp, err)
	}

	accessToken := exchangeResp.GetAccessToken()
	itemID := exchangeResp.GetItemId()
	if accessToken == "" || itemID == "" {
		return nil, linking.UpstreamUnavailable("Aggregator returned an incomplete token exchange", nil)
	}

	accountsReq := plaid.NewAccountsGetRequest(accessToken)
	accountsResp, httpResp, err := c.api.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*accountsReq).Execute()
	if err != nil {
		return nil, classify("accounts get", httpResp, err)
	}

	exchange = &models.Exchange{
		AccessToken:     accessToken,
		ItemID:          itemID,
		InstitutionName: fallbackInstitutionName,
	}
	for _, a := range accountsResp.GetAccounts() {
		account, err := parseAccount(rawAccountFrom(a))
		if err != nil {
			log.Printf("WARN: dropping account from item %s: %v", itemID, err)
			continue
		}
		exchange.Accounts = append(exchange.Accounts, account)
	}

	item := accountsResp.GetItem()
	if institutionID := item.GetInstitutionId(); institutionID != "" {
		if name := c.institutionName(ctx, institutionID); name != "" {
			exchange.InstitutionName = name
		}
	}

	return exchange, nil
}

// institutionName is best effort: a failed lookup leaves the fallback name.
func (c *Client) institutionName(ctx context.Context, institutionID string) string {
	req := plaid.NewInstitutionsGetByIdRequest(institutionID, c.countryCodes)
	resp, _, err := c.api.PlaidApi.InstitutionsGetById(ctx).InstitutionsGetByIdRequest(*req).Execute()
	if err != nil {
		log.Printf("WARN: failed to look up institution %s: %v", institutionID, err)
		return ""
	}
	institution := resp.GetInstitution()
	return institution.GetName()
}
