// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - http.BookRepository: persistence behind the REST book service (internal/http/books.go)
//   - http.Pinger: connectivity checks for /health (internal/http/health.go)
//   - scheduler.Resetter: restores the sample catalog (internal/scheduler/catalog_reset.go)
//
// ## Remote Service Interfaces
//
//   - bookstore.Remote: the REST resource the store mirrors its writes to
//     (internal/bookstore/store.go), implemented by booksapi.Client
//
// # Adding a New Remote Backend
//
// To keep the catalog somewhere other than the REST book service:
//
//  1. Implement bookstore.Remote:
//
//     type GRPCRemote struct {
//         conn *grpc.ClientConn
//     }
//
//     func (r *GRPCRemote) List(ctx context.Context) ([]entities.Book, error)
//     func (r *GRPCRemote) Create(ctx context.Context, book entities.Book) (*entities.Book, error)
//     func (r *GRPCRemote) Update(ctx context.Context, book entities.Book) (*entities.Book, error)
//     func (r *GRPCRemote) Delete(ctx context.Context, id string) (string, error)
//
//     var _ bookstore.Remote = (*GRPCRemote)(nil)
//
//  2. Pass it to bookstore.New in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
