// Package mocks provides mock implementations for testing purposes.
package mocks

//go:generate mockgen -destination=mock_instruments_repo.go -package=mocks bankengine/internal/repository/instruments_repo InstrumentRepository
//go:generate mockgen -destination=mock_transfers_repo.go -package=mocks bankengine/internal/repository/transfers_repo TransferRepository
//go:generate mockgen -destination=mock_outbox_repo.go -package=mocks bankengine/internal/repository/outbox_repo OutboxRepository
//go:generate mockgen -destination=mock_inbox_repo.go -package=mocks bankengine/internal/repository/inbox_repo InboxRepository
//go:generate mockgen -destination=mock_domain.go -package=mocks bankengine/internal/domain UnitOfWork
//go:generate mockgen -destination=mock_transfers_service.go -package=mocks bankengine/internal/app/transfers Service
//go:generate mockgen -destination=mock_kafka_producer.go -package=mocks bankengine/internal/infrastructure/kafka Producer
