package repository

import "github.com/emilianohg/sitetrack/internal/models"

type RepresentativeRepo struct {
	db Querier
}

func NewRepresentativeRepo(db Querier) *RepresentativeRepo {
	return &RepresentativeRepo{db: db}
}

func (r *RepresentativeRepo) Create(companyID int64, name, position string) (*models.Representative, error) {
	result, err := r.db.Exec(
		"INSERT INTO company_representatives (company_id, name, position) VALUES (?, ?, ?)",
		companyID, name, position,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Representative{ID: id, CompanyID: companyID, Name: name, Position: position}, nil
}

func (r *RepresentativeRepo) GetByCompanyID(companyID int64) ([]models.Representative, error) {
	rows, err := r.db.Query(
		"SELECT id, company_id, name, position FROM company_representatives WHERE company_id = ? ORDER BY name",
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []models.Representative
	for rows.Next() {
		var rep models.Representative
		if err := rows.Scan(&rep.ID, &rep.CompanyID, &rep.Name, &rep.Position); err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}
