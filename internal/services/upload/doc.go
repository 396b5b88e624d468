// Package upload sends customer documents to the remote indexing backend.
//
// Files travel as the multipart form field "file". A 2xx reply carries the
// number of chunks indexed (chunksIndexed, or the older chunks field). Any
// other reply is surfaced as *Error with the response body verbatim so the
// assistant can show it to the customer. Transport failures are wrapped with
// services.ErrUpload.
//
// An optional local precheck enforces the published upload guidelines (file
// type, size, parseable PDF) before anything leaves the process. Precheck
// rejections are reported as *Error with StatusCode 0.
package upload
