package pgde

import (
	"context"
	"io"
)

type (
	// Transaction интерфейс транзакции базы данных
	Transaction interface {
		// Context - возвращает контекст транзакции, запросы с ним выполняются внутри транзакции
		Context() context.Context
		// Commit Фиксирует текущую транзакцию
		Commit(ctx context.Context) error
		// Rollback Откатывает текущую транзакцию
		Rollback(ctx context.Context) error
	}

	// Client - исполнитель запросов, владеющий соединениями
	Client interface {
		Executor
		io.Closer
		// Begin Стартует и возвращает новую транзакцию
		Begin(ctx context.Context, opts ...any) (Transaction, error)
	}

	// Factory - абстрактная фабрика клиентов
	Factory interface {
		// Client - возвращает клиента базы данных по dsn
		Client(dsn string) (Client, error)
	}
)
