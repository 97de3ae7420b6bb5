package mocks

//go:generate mockgen -destination=./mock_source.go -package=mocks github.com/rxtech-lab/argo-ticker/internal/feed Source
//go:generate mockgen -destination=./mock_binance_websocket.go -package=mocks github.com/rxtech-lab/argo-ticker/internal/feed BinanceWebSocketService
