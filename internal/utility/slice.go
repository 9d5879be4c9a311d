package utility

// Contains báo một phần tử có xuất hiện trong slice hay không. Dùng để kiểm
// tra refresh token của user và whitelist field/operator của query filter.
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
