package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"bank-accounts/models"
)

// mysqlClientRepository implements ClientRepository for MySQL.
type mysqlClientRepository struct {
	db DBTX
}

// NewMySQLClientRepository creates a new MySQL client repository.
func NewMySQLClientRepository(db DBTX) ClientRepository {
	return &mysqlClientRepository{db: db}
}

// GetAllClients retrieves every client ordered by client number.
func (r *mysqlClientRepository) GetAllClients(ctx context.Context) ([]models.ClientRecord, error) {
	query := "SELECT client_number, first_name, last_name, email_address FROM clients ORDER BY client_number"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "GetAllClients")
	}
	defer rows.Close()

	var clients []models.ClientRecord
	for rows.Next() {
		var c models.ClientRecord
		if err := rows.Scan(&c.ClientNumber, &c.FirstName, &c.LastName, &c.EmailAddress); err != nil {
			return nil, errors.Wrap(err, "GetAllClients: scan error")
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "GetAllClients: rows iteration error")
	}
	return clients, nil
}

// GetClientByNumber retrieves a single client.
func (r *mysqlClientRepository) GetClientByNumber(ctx context.Context, clientNumber int) (models.ClientRecord, error) {
	var c models.ClientRecord
	query := "SELECT client_number, first_name, last_name, email_address FROM clients WHERE client_number = ?"
	err := r.db.QueryRowContext(ctx, query, clientNumber).Scan(&c.ClientNumber, &c.FirstName, &c.LastName, &c.EmailAddress)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, errors.Wrapf(ErrNotFound, "GetClientByNumber: client %d", clientNumber)
		}
		return c, errors.Wrap(err, "GetClientByNumber")
	}
	return c, nil
}
