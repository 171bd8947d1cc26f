package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name HistoryFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename history_fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LeagueDirectory --dir ../usecase --output usecase --outpkg usecasemock --filename league_directory_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name GameweekStatus --dir ../usecase --output usecase --outpkg usecasemock --filename gameweek_status_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/historyarchive --output domain/historyarchive --outpkg historyarchivemock --filename repository_mock.go
