// Package logger builds the service's *slog.Logger.
//
// New takes functional options for output format, level, static attributes
// and ContextExtractor callbacks. Extractors run on every record, which is how
// request ids and the runtime environment end up on webhook log lines without
// being passed around explicitly.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "fixology"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "billing state applied",
//	    logger.TenantID(shopID),
//	    logger.EventID(evt.ID),
//	)
//
// The attribute helpers (TenantID, EventID, CustomerID, Status, ...) keep key
// names consistent across packages. Helpers taking an error or an id return an
// empty slog.Attr for nil or empty input, so callers do not need nil checks.
package logger
