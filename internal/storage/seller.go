/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"gosalesdesk/internal/domain"
)

// SellerDAO reads and writes sellers together with their department reference.
type SellerDAO struct {
	db *DB
}

const sellerSelect = `SELECT s.id, s.name, s.email, s.birth_date, s.base_salary, d.id, d.name
FROM seller s LEFT JOIN department d ON d.id = s.department_id`

// FindAll returns every seller ordered by name. Sellers of the same department
// share one *domain.Department value.
func (s *SellerDAO) FindAll(ctx context.Context) ([]domain.Seller, error) {
	rows, err := s.db.query(ctx, sellerSelect+` ORDER BY s.name, s.id`)
	if err != nil {
		return nil, classify("find sellers", err)
	}
	defer func() { _ = rows.Close() }()

	deps := map[int]*domain.Department{}
	var out []domain.Seller
	for rows.Next() {
		sel, err := scanSeller(rows, deps)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("find sellers", err)
	}
	return out, nil
}

// FindByDepartment returns the sellers referencing the given department.
func (s *SellerDAO) FindByDepartment(ctx context.Context, dep domain.Department) ([]domain.Seller, error) {
	if dep.IsNew() {
		return nil, nil
	}
	rows, err := s.db.query(ctx, sellerSelect+` WHERE s.department_id = ? ORDER BY s.name, s.id`, *dep.ID)
	if err != nil {
		return nil, classify("find sellers by department", err)
	}
	defer func() { _ = rows.Close() }()

	deps := map[int]*domain.Department{}
	var out []domain.Seller
	for rows.Next() {
		sel, err := scanSeller(rows, deps)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("find sellers by department", err)
	}
	return out, nil
}

func scanSeller(rows *sql.Rows, deps map[int]*domain.Department) (domain.Seller, error) {
	var (
		id      int
		name    string
		email   string
		birth   any
		salary  float64
		depID   sql.NullInt64
		depName sql.NullString
	)
	if err := rows.Scan(&id, &name, &email, &birth, &salary, &depID, &depName); err != nil {
		return domain.Seller{}, classify("scan seller", err)
	}
	bd, err := scanDate(birth)
	if err != nil {
		return domain.Seller{}, &DBError{Op: "scan seller", Err: err}
	}
	sel := domain.Seller{
		ID:         domain.IntPtr(id),
		Name:       name,
		Email:      email,
		BirthDate:  bd,
		BaseSalary: domain.FloatPtr(salary),
	}
	if depID.Valid {
		key := int(depID.Int64)
		dep, ok := deps[key]
		if !ok {
			dep = &domain.Department{ID: domain.IntPtr(key), Name: depName.String}
			deps[key] = dep
		}
		sel.Department = dep
	}
	return sel, nil
}

func departmentArg(sel domain.Seller) any {
	if sel.Department == nil || sel.Department.ID == nil {
		return nil
	}
	return *sel.Department.ID
}

func salaryArg(sel domain.Seller) any {
	if sel.BaseSalary == nil {
		return nil
	}
	return *sel.BaseSalary
}

// SaveOrUpdate inserts a seller without identity and assigns the generated id,
// or updates the existing row.
func (s *SellerDAO) SaveOrUpdate(ctx context.Context, sel domain.Seller) (domain.Seller, error) {
	birth := s.db.dialect.dateArg(sel.BirthDate)
	if sel.IsNew() {
		var id int
		err := s.db.queryRow(ctx,
			`INSERT INTO seller (name, email, birth_date, base_salary, department_id) VALUES (?, ?, ?, ?, ?) RETURNING id`,
			sel.Name, sel.Email, birth, salaryArg(sel), departmentArg(sel)).Scan(&id)
		if err != nil {
			return sel, classify("insert seller", err)
		}
		sel.ID = domain.IntPtr(id)
		s.db.log.Info("seller inserted", slog.Int("id", id))
		return sel, nil
	}
	res, err := s.db.exec(ctx,
		`UPDATE seller SET name = ?, email = ?, birth_date = ?, base_salary = ?, department_id = ? WHERE id = ?`,
		sel.Name, sel.Email, birth, salaryArg(sel), departmentArg(sel), *sel.ID)
	if err != nil {
		return sel, classify("update seller", err)
	}
	if err := expectOne(res, "update seller"); err != nil {
		return sel, err
	}
	s.db.log.Info("seller updated", slog.Int("id", *sel.ID))
	return sel, nil
}

// Remove deletes the seller.
func (s *SellerDAO) Remove(ctx context.Context, sel domain.Seller) error {
	if sel.IsNew() {
		return &DBError{Op: "remove seller", Err: fmt.Errorf("seller has no id")}
	}
	if _, err := s.db.exec(ctx, `DELETE FROM seller WHERE id = ?`, *sel.ID); err != nil {
		return classify("remove seller", err)
	}
	s.db.log.Info("seller removed", slog.Int("id", *sel.ID))
	return nil
}
