package repository

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"bank-accounts/internal/util"
	"bank-accounts/models"
)

// csvClientRepository implements ClientRepository over clients.csv.
type csvClientRepository struct {
	path   string
	logger *zap.Logger
}

// NewCSVClientRepository creates a client repository reading dir/clients.csv.
func NewCSVClientRepository(dir string, logger *zap.Logger) ClientRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &csvClientRepository{path: filepath.Join(dir, ClientsFile), logger: logger}
}

// GetAllClients reads every row of clients.csv with a numeric client number.
func (r *csvClientRepository) GetAllClients(ctx context.Context) ([]models.ClientRecord, error) {
	table, err := util.ReadTable(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "GetAllClients")
	}
	var clients []models.ClientRecord
	for _, row := range table.Rows {
		n, err := strconv.Atoi(row.Get("client_number"))
		if err != nil {
			r.logger.Warn("skipping client row",
				zap.String("file", r.path), zap.Int("line", row.Line), zap.Error(err))
			continue
		}
		clients = append(clients, models.ClientRecord{
			ClientNumber: n,
			FirstName:    row.Get("first_name"),
			LastName:     row.Get("last_name"),
			EmailAddress: row.Get("email_address"),
		})
	}
	return clients, nil
}

// GetClientByNumber returns the client with clientNumber.
func (r *csvClientRepository) GetClientByNumber(ctx context.Context, clientNumber int) (models.ClientRecord, error) {
	clients, err := r.GetAllClients(ctx)
	if err != nil {
		return models.ClientRecord{}, errors.Wrap(err, "GetClientByNumber")
	}
	for _, c := range clients {
		if c.ClientNumber == clientNumber {
			return c, nil
		}
	}
	return models.ClientRecord{}, errors.Wrapf(ErrNotFound, "GetClientByNumber: client %d", clientNumber)
}
