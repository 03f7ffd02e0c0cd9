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
	"errors"
	"fmt"
	"log/slog"

	"gosalesdesk/internal/domain"
)

// DepartmentDAO reads and writes departments.
type DepartmentDAO struct {
	db *DB
}

// FindAll returns every department ordered by name.
func (d *DepartmentDAO) FindAll(ctx context.Context) ([]domain.Department, error) {
	rows, err := d.db.query(ctx, `SELECT id, name FROM department ORDER BY name, id`)
	if err != nil {
		return nil, classify("find departments", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Department
	for rows.Next() {
		var (
			id   int
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, classify("scan department", err)
		}
		out = append(out, domain.Department{ID: domain.IntPtr(id), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, classify("find departments", err)
	}
	return out, nil
}

// FindByID returns the department with the given id or a DBError wrapping ErrNotFound.
func (d *DepartmentDAO) FindByID(ctx context.Context, id int) (domain.Department, error) {
	var name string
	err := d.db.queryRow(ctx, `SELECT name FROM department WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Department{}, &DBError{Op: "find department", Err: ErrNotFound}
	}
	if err != nil {
		return domain.Department{}, classify("find department", err)
	}
	return domain.Department{ID: domain.IntPtr(id), Name: name}, nil
}

// SaveOrUpdate inserts a department without identity and assigns the generated id,
// or updates the existing row.
func (d *DepartmentDAO) SaveOrUpdate(ctx context.Context, dep domain.Department) (domain.Department, error) {
	if dep.IsNew() {
		var id int
		if err := d.db.queryRow(ctx, `INSERT INTO department (name) VALUES (?) RETURNING id`, dep.Name).Scan(&id); err != nil {
			return dep, classify("insert department", err)
		}
		dep.ID = domain.IntPtr(id)
		d.db.log.Info("department inserted", slog.Int("id", id))
		return dep, nil
	}
	res, err := d.db.exec(ctx, `UPDATE department SET name = ? WHERE id = ?`, dep.Name, *dep.ID)
	if err != nil {
		return dep, classify("update department", err)
	}
	if err := expectOne(res, "update department"); err != nil {
		return dep, err
	}
	d.db.log.Info("department updated", slog.Int("id", *dep.ID))
	return dep, nil
}

// Remove deletes the department. Removing a department still referenced by
// sellers yields an IntegrityError.
func (d *DepartmentDAO) Remove(ctx context.Context, dep domain.Department) error {
	if dep.IsNew() {
		return &DBError{Op: "remove department", Err: fmt.Errorf("department has no id")}
	}
	if _, err := d.db.exec(ctx, `DELETE FROM department WHERE id = ?`, *dep.ID); err != nil {
		return classify("remove department", err)
	}
	d.db.log.Info("department removed", slog.Int("id", *dep.ID))
	return nil
}

// expectOne turns a zero-row update into a not-found DBError.
func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if n == 0 {
		return &DBError{Op: op, Err: ErrNotFound}
	}
	return nil
}
