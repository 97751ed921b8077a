package plaid

import (
	"context"
	"log"
	"time"

	"github.com/plaid/plaid-go/v41/plaid"

	"fintrack-server/src/linking"
	"fintrack-server/src/models"
)

const plaidDate = "2006-01-02"

// FetchTransactions pages through /transactions/get until the reported total is reached.
func (c *Client) FetchTransactions(ctx context.Context, req linking.FetchRequest) (txns []models.Transaction, err error) {
	defer observe(ctx, "transactions_get", time.Now(), &err)

	var offset int32
	for {
		options := plaid.NewTransactionsGetRequestOptions()
		options.SetCount(c.pageSize)
		options.SetOffset(offset)
		if req.ExternalAccountID != "" {
			options.SetAccountIds([]string{req.ExternalAccountID})
		}

		request := plaid.NewTransactionsGetRequest(req.AccessToken, req.Start.Format(plaidDate), req.End.Format(plaidDate))
		request.SetOptions(*options)

		resp, httpResp, err := c.api.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
		if err != nil {
			return nil, classify("transactions get", httpResp, err)
		}

		page := resp.GetTransactions()
		for _, t := range page {
			txn, err := parseTransaction(rawTransactionFrom(t))
			if err != nil {
				log.Printf("WARN: dropping transaction for account %s: %v", req.ExternalAccountID, err)
				continue
			}
			txns = append(txns, txn)
		}

		offset += int32(len(page))
		if len(page) == 0 || offset >= resp.GetTotalTransactions() {
			break
		}
	}

	return txns, nil
}
