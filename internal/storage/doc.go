/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package storage is the data access layer for departments and sellers.
// It runs on database/sql with either the embedded pure-Go SQLite driver (default,
// one file per user) or PostgreSQL through pgx. Schema changes ship as embedded,
// ordered SQL files per dialect and are recorded in schema_migrations.
// Failures are reported as *DBError, or *IntegrityError when a referential
// constraint blocked the write.
package storage
