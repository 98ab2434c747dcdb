package cbr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dan9191/mortgage-service/internal/config"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrNoKeyRate is returned when the response holds no rate rows
var ErrNoKeyRate = errors.New("no key rate data found in XML")

// CBRClient handles integration with Central Bank of Russia
type CBRClient struct {
	url    string
	margin decimal.Decimal
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(cfg *config.Config, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url:    cfg.CBRURL,
		margin: cfg.CBRMargin,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// buildSOAPRequest asks for the key rates of the last 30 days
func (c *CBRClient) buildSOAPRequest() string {
	fromDate := c.now().AddDate(0, 0, -30).Format("2006-01-02")
	toDate := c.now().Format("2006-01-02")
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<KeyRate xmlns="http://web.cbr.ru/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</KeyRate>
			</soap12:Body>
		</soap12:Envelope>`, fromDate, toDate)
}

// sendRequest sends SOAP request to CBR
func (c *CBRClient) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("CBR XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts the latest key rate, which CBR lists first
func parseXMLResponse(rawBody []byte) (decimal.Decimal, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse XML: %w", err)
	}

	krElements := doc.FindElements("//diffgram/KeyRate/KR")
	if len(krElements) == 0 {
		return decimal.Zero, ErrNoKeyRate
	}

	rateElement := krElements[0].FindElement("./Rate")
	if rateElement == nil {
		return decimal.Zero, fmt.Errorf("rate element not found in XML")
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(rateElement.Text()))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse rate: %w", err)
	}

	return rate, nil
}

// GetKeyRate retrieves the current key rate from CBR and adds the bank margin
func (c *CBRClient) GetKeyRate(ctx context.Context) (decimal.Decimal, error) {
	body, err := c.sendRequest(ctx, c.buildSOAPRequest())
	if err != nil {
		return decimal.Zero, err
	}

	rate, err := parseXMLResponse(body)
	if err != nil {
		return decimal.Zero, err
	}

	rate = rate.Add(c.margin)

	c.log.Infof("Retrieved key rate: %s%% (including %s%% bank margin)", rate, c.margin)
	return rate, nil
}
