/*
 * Copyright 2025 The Ruleact Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package action

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/utils/maps"
)

// updateConfig is the typed view of the handler parameters.
type updateConfig struct {
	Sql    string
	Driver string
	Dsn    string
	Params []interface{}
}

func init() {
	Registry.Add(&UpdateDatabaseHandler{})
}

// UpdateDatabaseHandler executes a mutating SQL statement through
// database/sql with the mysql or postgres driver. Driver and DSN come from
// the `driver`/`dsn` parameters or the `db.driver`/`db.dsn` properties. With
// no DSN configured the effect is simulated, the statement is logged and a
// zero-row envelope returned. SELECT statements are rejected, the action
// mutates, it does not query.
type UpdateDatabaseHandler struct {
	baseHandler
	mu    sync.Mutex
	pools map[string]*sql.DB
}

func (x *UpdateDatabaseHandler) Type() string {
	return TypeUpdateDatabase
}

func (x *UpdateDatabaseHandler) New() types.ActionHandler {
	return &UpdateDatabaseHandler{}
}

func (x *UpdateDatabaseHandler) RequiredParameters() []string {
	return []string{"sql"}
}

func (x *UpdateDatabaseHandler) Execute(ctx context.Context, params types.Configuration, _ *types.ExecutionContext) (interface{}, error) {
	var conf updateConfig
	if err := maps.Map2Struct(params, &conf); err != nil {
		return nil, err
	}
	statement := conf.Sql
	opType := statementOp(statement)
	switch opType {
	case "UPDATE", "INSERT", "DELETE":
	default:
		return nil, errors.New("unsupported sql statement. op=" + opType)
	}

	driver := conf.Driver
	if driver == "" {
		driver = x.config.Property("db.driver")
	}
	if driver == "" {
		driver = "mysql"
	}
	dsn := conf.Dsn
	if dsn == "" {
		dsn = x.config.Property("db.dsn")
	}
	if dsn == "" {
		x.logger().Printf("database update simulated. op=%s sql=%s", opType, statement)
		return map[string]interface{}{
			"simulated":    true,
			"rowsAffected": int64(0),
			"timestamp":    time.Now(),
		}, nil
	}

	db, err := x.pool(driver, dsn)
	if err != nil {
		return nil, err
	}
	result, err := db.ExecContext(ctx, statement, conf.Params...)
	if err != nil {
		return nil, err
	}
	rowsAffected, _ := result.RowsAffected()
	envelope := map[string]interface{}{
		"rowsAffected": rowsAffected,
		"timestamp":    time.Now(),
	}
	if opType == "INSERT" {
		if lastInsertId, err := result.LastInsertId(); err == nil {
			envelope["lastInsertId"] = lastInsertId
		}
	}
	return envelope, nil
}

// pool opens one connection pool per driver+dsn and reuses it.
func (x *UpdateDatabaseHandler) pool(driver, dsn string) (*sql.DB, error) {
	key := driver + "|" + dsn
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.pools == nil {
		x.pools = make(map[string]*sql.DB)
	}
	if db, ok := x.pools[key]; ok {
		return db, nil
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	x.pools[key] = db
	return db, nil
}

func (x *UpdateDatabaseHandler) Destroy() {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, db := range x.pools {
		_ = db.Close()
	}
	x.pools = nil
}

func statementOp(statement string) string {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
