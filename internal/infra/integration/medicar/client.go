package medicar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/http/middleware"
)

const (
	maxAttempts = 3
	baseBackoff = 1 * time.Second
	maxBackoff  = 6 * time.Second

	// Renova o token com folga antes do vencimento real.
	tokenSafetyMargin = 30 * time.Second
)

type Config struct {
	BaseURL      string
	Username     string
	Password     string
	CNPJMedicar  string
	GrupoEmpresa string
	Contrato     string
}

type Client struct {
	cfg  Config
	http *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config) *Client {
	cfg.CNPJMedicar = entity.OnlyDigits(cfg.CNPJMedicar)
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 20 * time.Second},
	}
}

// getValidToken devolve o token em cache ou renova. O mutex serializa a
// renovação: requests concorrentes esperam e reusam o token novo em vez de
// disparar refreshes duplicados.
func (c *Client) getValidToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(tokenSafetyMargin).Before(c.tokenExpiry) {
		return c.token, nil
	}

	log.Println("🔄 [MEDICAR] Renovando token...")

	payload := map[string]string{
		"grant_type": "password",
		"username":   c.cfg.Username,
		"password":   c.cfg.Password,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/api/oauth2/v1/token", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro de comunicação ao obter token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("falha ao obter token (HTTP %d): %s", resp.StatusCode, string(raw))
	}

	var data tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("erro ao decodificar token: %w", err)
	}
	if data.AccessToken == "" {
		return "", fmt.Errorf("resposta inválida ao obter token")
	}

	exp := data.ExpiresIn
	if exp == 0 {
		exp = 3600
	}

	c.token = data.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(exp) * time.Second)

	log.Println("✅ [MEDICAR] Token obtido com sucesso.")
	return c.token, nil
}

// ResolveTenant busca o contrato do grupo empresa e devolve o tenantid.
// Falha aqui é fatal para o lote inteiro: sem tenant não há o que processar.
func (c *Client) ResolveTenant(ctx context.Context) (string, error) {
	contract, err := c.getContract(ctx, "")
	if err != nil {
		return "", err
	}
	if contract.TenantID == "" {
		return "", fmt.Errorf("contrato MEDICAR sem tenantid")
	}
	return contract.TenantID, nil
}

// FindMembership consulta a matrícula (BBA_MATRIC) pelo CPF do titular.
// Devolve vazio, sem erro, quando o beneficiário não existe no back office.
func (c *Client) FindMembership(ctx context.Context, cpf string) (string, error) {
	contract, err := c.getContract(ctx, entity.OnlyDigits(cpf))
	if err != nil {
		return "", err
	}
	for _, item := range contract.Items {
		if entity.OnlyDigits(item.CPFTit) == entity.OnlyDigits(cpf) {
			return item.Matricula, nil
		}
	}
	return "", nil
}

func (c *Client) getContract(ctx context.Context, cpf string) (*contractResponse, error) {
	token, err := c.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("cnpjmedicar", c.cfg.CNPJMedicar)
	params.Set("grupoempresa", c.cfg.GrupoEmpresa)
	params.Set("contrato", c.cfg.Contrato)
	if cpf != "" {
		params.Set("cgcbeneficiario", cpf)
	}

	endpoint := c.cfg.BaseURL + "/client/v1/contract?" + params.Encode()

	var contract contractResponse
	err = c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	}, &contract)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar contrato na MEDICAR: %w", err)
	}
	return &contract, nil
}

// EnrollTitular submete a inclusão do titular (fase a). A matrícula NÃO vem
// na resposta: ela é descoberta depois via FindMembership.
func (c *Client) EnrollTitular(ctx context.Context, tenantID string, titular entity.Person, product entity.MappedProduct) error {
	payload := fwModelRequest{
		ID:        "PLIncBenModel",
		Operation: opInclude,
		Models: []fwModel{
			{
				ID:        "MASTERBBA",
				ModelType: "FIELDS",
				Fields: []fwField{
					{ID: "BBA_EMPBEN", Value: titular.Name},
					{ID: "BBA_CODPRO", Value: product.CodPro},
					{ID: "BBA_VERSAO", Value: product.Versao},
					{ID: "BBA_CPFTIT", Value: entity.OnlyDigits(titular.CPF)},
				},
				Models: []fwModel{
					{
						ID:        "DETAILB2N",
						ModelType: "GRID",
						Items:     []gridItem{beneficiaryRow(1, titular, product, "T")},
					},
				},
			},
		},
	}

	if err := c.postModel(ctx, tenantID, "PLIncBenModel", payload); err != nil {
		return fmt.Errorf("erro ao incluir titular CPF %s: %w", entity.OnlyDigits(titular.CPF), err)
	}
	return nil
}

// EnrollDependents submete a grade atual de dependentes contra uma matrícula
// conhecida. O back office substitui a grade pela enviada, chaveada por CPF,
// então reenviar a mesma lista é idempotente.
func (c *Client) EnrollDependents(ctx context.Context, tenantID, matricula string, titularCPF string, deps []entity.Person, product entity.MappedProduct) error {
	items := make([]gridItem, 0, len(deps))
	for i, dep := range deps {
		items = append(items, beneficiaryRow(i+1, dep, product, "D"))
	}

	payload := fwModelRequest{
		ID:        "PLIncBenModel",
		Operation: opUpdate,
		Models: []fwModel{
			{
				ID:        "MASTERBBA",
				ModelType: "FIELDS",
				Fields: []fwField{
					{ID: "BBA_MATRIC", Value: matricula},
					{ID: "BBA_CODPRO", Value: product.CodPro},
					{ID: "BBA_VERSAO", Value: product.Versao},
					{ID: "BBA_CPFTIT", Value: entity.OnlyDigits(titularCPF)},
				},
				Models: []fwModel{
					{
						ID:        "DETAILB2N",
						ModelType: "GRID",
						Items:     items,
					},
				},
			},
		},
	}

	if err := c.postModel(ctx, tenantID, "PLIncBenModel", payload); err != nil {
		return fmt.Errorf("erro ao incluir dependentes na matrícula %s: %w", matricula, err)
	}
	return nil
}

// CancelMembership bloqueia uma matrícula com motivo e data de vigência.
func (c *Client) CancelMembership(ctx context.Context, tenantID string, input CancelInput) error {
	payload := fwModelRequest{
		ID:        "PLBloqBenModel",
		Operation: opInclude,
		Models: []fwModel{
			{
				ID:        "MASTERBBA",
				ModelType: "FIELDS",
				Fields: []fwField{
					{ID: "BBA_MATRIC", Value: input.Matricula},
					{ID: "BBA_MOTBLO", Value: input.MotivoBloqueio},
					{ID: "BBA_DATBLO", Value: input.DataBloqueio},
					{ID: "BBA_USRBLO", Value: input.Usuario},
				},
			},
		},
	}

	if err := c.postModel(ctx, tenantID, "PLBloqBenModel", payload); err != nil {
		return fmt.Errorf("erro ao bloquear matrícula %s: %w", input.Matricula, err)
	}
	return nil
}

func beneficiaryRow(id int, p entity.Person, product entity.MappedProduct, tipo string) gridItem {
	sexo := "1"
	if p.Gender == 2 {
		sexo = "2"
	}
	return gridItem{
		ID:      id,
		Deleted: 0,
		Fields: []fwField{
			{ID: "B2N_NOMUSR", Value: p.Name},
			{ID: "B2N_DATNAS", Value: strings.ReplaceAll(p.BirthDate, "-", "")},
			{ID: "B2N_SEXO", Value: sexo},
			{ID: "B2N_CODPRO", Value: product.CodPro},
			{ID: "B2N_CPFUSR", Value: entity.OnlyDigits(p.CPF)},
			{ID: "B2N_NOMMAE", Value: p.MotherName},
			{ID: "B2N_TIPUSR", Value: tipo},
		},
	}
}

func (c *Client) postModel(ctx context.Context, tenantID, model string, payload fwModelRequest) error {
	token, err := c.getValidToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/fwmodel/%s/", c.cfg.BaseURL, model)

	return c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("tenantid", tenantID)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, nil)
}

// doWithRetry executa a request com retry limitado: 3 tentativas, backoff
// exponencial com teto de 6s, só para falha de transporte ou 5xx.
func (c *Client) doWithRetry(ctx context.Context, build func() (*http.Request, error), out any) error {
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

		req, err := build()
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("erro de comunicação com MEDICAR: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			raw, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("MEDICAR respondeu %d: %s", resp.StatusCode, string(raw))
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			raw, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("MEDICAR rejeitou a operação (status %d): %s", resp.StatusCode, string(raw))
		}

		if out != nil {
			err = json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("erro ao ler resposta da MEDICAR: %w", err)
			}
		} else {
			resp.Body.Close()
		}
		return nil
	}

	middleware.RecordIntegrationError("medicar")
	return lastErr
}
