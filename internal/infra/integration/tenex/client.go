package tenex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/http/middleware"
)

// ErrNotFound indica que a TENEX não tem o registro consultado. Não é falha
// de transporte: o chamador decide se isso é fallback ou outcome.
var ErrNotFound = errors.New("registro não encontrado na TENEX")

const (
	maxAttempts = 3
	baseBackoff = 1 * time.Second
	maxBackoff  = 6 * time.Second
)

type Client struct {
	baseURL   string
	basicAuth string
	http      *http.Client
}

func NewClient(baseURL, basicAuth string) *Client {
	return &Client{
		baseURL:   baseURL,
		basicAuth: basicAuth,
		http:      &http.Client{Timeout: 20 * time.Second},
	}
}

// GetWallet busca a carteira virtual por CPF. Uma resposta vazia não é erro:
// o plano pode simplesmente ainda não existir.
func (c *Client) GetWallet(ctx context.Context, cpf string) ([]WalletRecord, error) {
	url := fmt.Sprintf("%s/api/v2/carteira-virtual/%s", c.baseURL, entity.OnlyDigits(cpf))

	var records []WalletRecord
	if err := c.getJSON(ctx, url, &records); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao consultar carteira na TENEX: %w", err)
	}
	return records, nil
}

// GetClient busca o cadastro expandido (status + contatos) por id.
func (c *Client) GetClient(ctx context.Context, clientID string) (*ClientRecord, error) {
	url := fmt.Sprintf("%s/api/v2/clientes/%s?expand=contatos", c.baseURL, clientID)

	var record ClientRecord
	if err := c.getJSON(ctx, url, &record); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao consultar cliente %s na TENEX: %w", clientID, err)
	}
	return &record, nil
}

// getJSON faz GET com retry limitado: 3 tentativas, backoff exponencial
// (1s, 2s, 4s, teto 6s) para falha de transporte ou 5xx. 4xx não é retentado.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := baseBackoff << (attempt - 1)
			if wait > maxBackoff {
				wait = maxBackoff
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Basic "+c.basicAuth)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("erro de comunicação com TENEX: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("TENEX respondeu %d: %s", resp.StatusCode, string(body))
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return ErrNotFound
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("TENEX rejeitou a consulta (status %d): %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("erro ao ler resposta da TENEX: %w", err)
		}
		return nil
	}

	middleware.RecordIntegrationError("tenex")
	return lastErr
}
