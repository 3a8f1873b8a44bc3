package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID          int64
	Amount      float64
	Date        string
	Description sql.NullString
	Category    string
}

// Budget is a row of the budgets table.
type Budget struct {
	Category string
	Limit    float64
	Spent    float64
}

type CategorySum struct {
	Category string
	Total    float64
}

const createTransaction = `INSERT INTO transactions (amount, date, description, category)
VALUES (?, ?, ?, ?)
RETURNING id, amount, date, description, category`

type CreateTransactionParams struct {
	Amount      float64
	Date        string
	Description sql.NullString
	Category    string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Amount,
		arg.Date,
		arg.Description,
		arg.Category,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Amount,
		&i.Date,
		&i.Description,
		&i.Category,
	)
	return i, err
}

const listTransactions = `SELECT id, amount, date, description, category FROM transactions ORDER BY id`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.Amount,
			&i.Date,
			&i.Description,
			&i.Category,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategorySums = `SELECT category, SUM(amount) AS total FROM transactions GROUP BY category ORDER BY category`

func (q *Queries) GetCategorySums(ctx context.Context) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, getCategorySums)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategorySum
	for rows.Next() {
		var i CategorySum
		if err := rows.Scan(&i.Category, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteAllTransactions(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllTransactions)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createBudget = `INSERT INTO budgets (category, "limit") VALUES (?, ?)`

type CreateBudgetParams struct {
	Category string
	Limit    float64
}

func (q *Queries) CreateBudget(ctx context.Context, arg CreateBudgetParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createBudget, arg.Category, arg.Limit)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getBudget = `SELECT category, "limit", spent FROM budgets WHERE category = ?`

func (q *Queries) GetBudget(ctx context.Context, category string) (Budget, error) {
	row := q.db.QueryRowContext(ctx, getBudget, category)
	var i Budget
	err := row.Scan(&i.Category, &i.Limit, &i.Spent)
	return i, err
}

const budgetExists = `SELECT EXISTS (SELECT 1 FROM budgets WHERE category = ?)`

func (q *Queries) BudgetExists(ctx context.Context, category string) (bool, error) {
	row := q.db.QueryRowContext(ctx, budgetExists, category)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const updateBudgetLimit = `UPDATE budgets SET "limit" = ? WHERE category = ?`

type UpdateBudgetLimitParams struct {
	Limit    float64
	Category string
}

func (q *Queries) UpdateBudgetLimit(ctx context.Context, arg UpdateBudgetLimitParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateBudgetLimit, arg.Limit, arg.Category)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateBudgetSpent = `UPDATE budgets SET spent = ? WHERE category = ?`

type UpdateBudgetSpentParams struct {
	Spent    float64
	Category string
}

func (q *Queries) UpdateBudgetSpent(ctx context.Context, arg UpdateBudgetSpentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateBudgetSpent, arg.Spent, arg.Category)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteBudget = `DELETE FROM budgets WHERE category = ?`

func (q *Queries) DeleteBudget(ctx context.Context, category string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBudget, category)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listBudgets = `SELECT category, "limit", spent FROM budgets ORDER BY category`

func (q *Queries) ListBudgets(ctx context.Context) ([]Budget, error) {
	rows, err := q.db.QueryContext(ctx, listBudgets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Budget
	for rows.Next() {
		var i Budget
		if err := rows.Scan(&i.Category, &i.Limit, &i.Spent); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
