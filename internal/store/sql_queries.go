package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-yamdb/models"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var userColumns = []string{
	"user_id",
	"username",
	"email",
	"first_name",
	"last_name",
	"bio",
	"role",
	"is_superuser",
	"code_version",
	"created_at",
}

func returningUser() string {
	return "RETURNING " + strings.Join(userColumns, ", ")
}

// likeContains builds an ILIKE pattern matching value anywhere, with the
// LIKE metacharacters in value escaped.
func likeContains(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(value) + "%"
}

func whereAll(b sq.SelectBuilder, conds sq.And) sq.SelectBuilder {
	if len(conds) == 0 {
		return b
	}
	return b.Where(conds)
}

// paginate renders b limited to one page. Pages whose offset does not fit in
// an int are refused.
func paginate(b sq.SelectBuilder, page models.PageRequest) (string, []any, error) {
	if page.PageSize <= 0 {
		return b.ToSql()
	}
	if page.Page > models.MaxPage(page.PageSize) {
		return "", nil, fmt.Errorf("%w: page %d", ErrPageOutOfRange, page.Page)
	}
	return b.Limit(uint64(page.PageSize)).Offset(uint64(page.Offset())).ToSql()
}

// ── users ────────────────────────────────────────────────────────────────────

func buildInsertUserQuery(user models.User) (string, []any, error) {
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	return psql.Insert("users").
		Columns("username", "email", "first_name", "last_name", "bio", "role").
		Values(user.Username, user.Email, user.FirstName, user.LastName, user.Bio, string(role)).
		Suffix(returningUser()).
		ToSql()
}

func buildSelectUserQuery(cond sq.Sqlizer) (string, []any, error) {
	return psql.Select(userColumns...).
		From("users").
		Where(cond).
		OrderBy("user_id").
		ToSql()
}

func buildBumpCodeVersionQuery(userID int64) (string, []any, error) {
	return psql.Update("users").
		Set("code_version", sq.Expr("code_version + 1")).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningUser()).
		ToSql()
}

func buildUpdateUserQuery(userID int64, patch models.UserPatch) (string, []any, error) {
	b := psql.Update("users")

	if patch.Username != nil {
		b = b.Set("username", *patch.Username)
	}
	if patch.Email != nil {
		b = b.Set("email", *patch.Email)
	}
	if patch.FirstName != nil {
		b = b.Set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		b = b.Set("last_name", *patch.LastName)
	}
	if patch.Bio != nil {
		b = b.Set("bio", *patch.Bio)
	}
	if patch.Role != nil {
		b = b.Set("role", string(*patch.Role))
	}

	return b.Set("code_version", sq.Expr("code_version + 1")).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningUser()).
		ToSql()
}

func buildDeleteUserQuery(userID int64) (string, []any, error) {
	return psql.Delete("users").Where(sq.Eq{"user_id": userID}).ToSql()
}

func userListConditions(filter models.UserFilter) sq.And {
	conds := sq.And{}
	if filter.Search != "" {
		conds = append(conds, sq.ILike{"username": likeContains(filter.Search)})
	}
	return conds
}

func buildCountUsersQuery(filter models.UserFilter) (string, []any, error) {
	return whereAll(psql.Select("COUNT(*)").From("users"), userListConditions(filter)).ToSql()
}

func buildListUsersQuery(filter models.UserFilter) (string, []any, error) {
	b := whereAll(psql.Select(userColumns...).From("users"), userListConditions(filter))
	return paginate(b.OrderBy("username"), filter.PageRequest)
}

// ── categories and genres ────────────────────────────────────────────────────

func buildInsertSlugNamedQuery(table string, item models.SlugNamed) (string, []any, error) {
	return psql.Insert(table).
		Columns("name", "slug").
		Values(item.Name, item.Slug).
		Suffix("RETURNING id, name, slug").
		ToSql()
}

func slugNamedConditions(filter models.SlugNamedFilter) sq.And {
	conds := sq.And{}
	if filter.Search != "" {
		conds = append(conds, sq.ILike{"name": likeContains(filter.Search)})
	}
	return conds
}

func buildCountSlugNamedQuery(table string, filter models.SlugNamedFilter) (string, []any, error) {
	return whereAll(psql.Select("COUNT(*)").From(table), slugNamedConditions(filter)).ToSql()
}

func buildListSlugNamedQuery(table string, filter models.SlugNamedFilter) (string, []any, error) {
	b := whereAll(psql.Select("id", "name", "slug").From(table), slugNamedConditions(filter))
	return paginate(b.OrderBy("name", "id"), filter.PageRequest)
}

func buildFindBySlugsQuery(table string, slugs []string) (string, []any, error) {
	return psql.Select("id", "name", "slug").
		From(table).
		Where(sq.Eq{"slug": slugs}).
		OrderBy("id").
		ToSql()
}

func buildDeleteBySlugQuery(table, slug string) (string, []any, error) {
	return psql.Delete(table).Where(sq.Eq{"slug": slug}).ToSql()
}

// ── titles ───────────────────────────────────────────────────────────────────

func titleSelect() sq.SelectBuilder {
	return psql.Select(
		"t.id",
		"t.name",
		"t.year",
		"t.description",
		"c.id",
		"c.name",
		"c.slug",
		"ROUND(AVG(r.score))::int AS rating",
	).
		From("titles t").
		LeftJoin("categories c ON c.id = t.category_id").
		LeftJoin("reviews r ON r.title_id = t.id").
		GroupBy("t.id", "c.id")
}

func titleConditions(filter models.TitleFilter) sq.And {
	conds := sq.And{}
	if filter.CategorySlug != "" {
		conds = append(conds, sq.Eq{"c.slug": filter.CategorySlug})
	}
	if filter.GenreSlug != "" {
		conds = append(conds, sq.Expr(
			"EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id WHERE tg.title_id = t.id AND g.slug = ?)",
			filter.GenreSlug,
		))
	}
	if filter.Name != "" {
		conds = append(conds, sq.ILike{"t.name": likeContains(filter.Name)})
	}
	if filter.Year != 0 {
		conds = append(conds, sq.Eq{"t.year": filter.Year})
	}
	return conds
}

func buildGetTitleQuery(titleID int64) (string, []any, error) {
	return titleSelect().Where(sq.Eq{"t.id": titleID}).ToSql()
}

func buildCountTitlesQuery(filter models.TitleFilter) (string, []any, error) {
	b := psql.Select("COUNT(*)").
		From("titles t").
		LeftJoin("categories c ON c.id = t.category_id")
	return whereAll(b, titleConditions(filter)).ToSql()
}

func buildListTitlesQuery(filter models.TitleFilter) (string, []any, error) {
	b := whereAll(titleSelect(), titleConditions(filter))
	return paginate(b.OrderBy("t.id"), filter.PageRequest)
}

func buildTitleGenresQuery(titleIDs []int64) (string, []any, error) {
	return psql.Select("tg.title_id", "g.id", "g.name", "g.slug").
		From("title_genres tg").
		Join("genres g ON g.id = tg.genre_id").
		Where(sq.Eq{"tg.title_id": titleIDs}).
		OrderBy("g.name", "g.id").
		ToSql()
}

func buildInsertTitleQuery(title models.TitleWrite) (string, []any, error) {
	return psql.Insert("titles").
		Columns("name", "year", "description", "category_id").
		Values(title.Name, title.Year, title.Description, title.CategoryID).
		Suffix("RETURNING id").
		ToSql()
}

func buildLockTitleQuery(titleID int64) (string, []any, error) {
	return psql.Select("id").From("titles").Where(sq.Eq{"id": titleID}).Suffix("FOR UPDATE").ToSql()
}

// buildUpdateTitleQuery returns an empty query when title changes no column
// of the titles table.
func buildUpdateTitleQuery(titleID int64, title models.TitleWrite) (string, []any, error) {
	b := psql.Update("titles")
	changed := false

	if title.Name != nil {
		b, changed = b.Set("name", *title.Name), true
	}
	if title.Year != nil {
		b, changed = b.Set("year", *title.Year), true
	}
	if title.Description != nil {
		b, changed = b.Set("description", *title.Description), true
	}
	if title.CategorySet {
		b, changed = b.Set("category_id", title.CategoryID), true
	}

	if !changed {
		return "", nil, nil
	}

	return b.Where(sq.Eq{"id": titleID}).ToSql()
}

func buildDeleteTitleGenresQuery(titleID int64) (string, []any, error) {
	return psql.Delete("title_genres").Where(sq.Eq{"title_id": titleID}).ToSql()
}

func buildInsertTitleGenresQuery(titleID int64, genreIDs []int64) (string, []any, error) {
	b := psql.Insert("title_genres").Columns("title_id", "genre_id")
	for _, id := range genreIDs {
		b = b.Values(titleID, id)
	}
	return b.Suffix("ON CONFLICT DO NOTHING").ToSql()
}

func buildDeleteTitleQuery(titleID int64) (string, []any, error) {
	return psql.Delete("titles").Where(sq.Eq{"id": titleID}).ToSql()
}

// ── reviews and comments ─────────────────────────────────────────────────────

const (
	reviewReturning  = "RETURNING id, title_id, author_id, (SELECT username FROM users WHERE user_id = reviews.author_id), text, score, pub_date"
	commentReturning = "RETURNING id, review_id, author_id, (SELECT username FROM users WHERE user_id = comments.author_id), text, pub_date"
)

func buildInsertReviewQuery(review models.Review) (string, []any, error) {
	return psql.Insert("reviews").
		Columns("title_id", "author_id", "text", "score").
		Values(review.TitleID, review.AuthorID, review.Text, review.Score).
		Suffix(reviewReturning).
		ToSql()
}

func reviewSelect() sq.SelectBuilder {
	return psql.Select("r.id", "r.title_id", "r.author_id", "u.username", "r.text", "r.score", "r.pub_date").
		From("reviews r").
		Join("users u ON u.user_id = r.author_id")
}

func buildGetReviewQuery(titleID, reviewID int64) (string, []any, error) {
	return reviewSelect().
		Where(sq.Eq{"r.id": reviewID}).
		Where(sq.Eq{"r.title_id": titleID}).
		ToSql()
}

func buildCountReviewsQuery(titleID int64) (string, []any, error) {
	return psql.Select("COUNT(*)").From("reviews").Where(sq.Eq{"title_id": titleID}).ToSql()
}

func buildListReviewsQuery(titleID int64, page models.PageRequest) (string, []any, error) {
	b := reviewSelect().Where(sq.Eq{"r.title_id": titleID}).OrderBy("r.pub_date", "r.id")
	return paginate(b, page)
}

func buildUpdateReviewQuery(reviewID int64, input models.ContentInput) (string, []any, error) {
	b := psql.Update("reviews")
	if input.Text != nil {
		b = b.Set("text", *input.Text)
	}
	if input.Score != nil {
		b = b.Set("score", *input.Score)
	}
	return b.Where(sq.Eq{"id": reviewID}).Suffix(reviewReturning).ToSql()
}

func buildDeleteReviewQuery(reviewID int64) (string, []any, error) {
	return psql.Delete("reviews").Where(sq.Eq{"id": reviewID}).ToSql()
}

func buildInsertCommentQuery(comment models.Comment) (string, []any, error) {
	return psql.Insert("comments").
		Columns("review_id", "author_id", "text").
		Values(comment.ReviewID, comment.AuthorID, comment.Text).
		Suffix(commentReturning).
		ToSql()
}

func commentSelect() sq.SelectBuilder {
	return psql.Select("cm.id", "cm.review_id", "cm.author_id", "u.username", "cm.text", "cm.pub_date").
		From("comments cm").
		Join("users u ON u.user_id = cm.author_id")
}

func buildGetCommentQuery(reviewID, commentID int64) (string, []any, error) {
	return commentSelect().
		Where(sq.Eq{"cm.id": commentID}).
		Where(sq.Eq{"cm.review_id": reviewID}).
		ToSql()
}

func buildCountCommentsQuery(reviewID int64) (string, []any, error) {
	return psql.Select("COUNT(*)").From("comments").Where(sq.Eq{"review_id": reviewID}).ToSql()
}

func buildListCommentsQuery(reviewID int64, page models.PageRequest) (string, []any, error) {
	b := commentSelect().Where(sq.Eq{"cm.review_id": reviewID}).OrderBy("cm.pub_date", "cm.id")
	return paginate(b, page)
}

func buildUpdateCommentQuery(commentID int64, input models.ContentInput) (string, []any, error) {
	b := psql.Update("comments")
	if input.Text != nil {
		b = b.Set("text", *input.Text)
	}
	return b.Where(sq.Eq{"id": commentID}).Suffix(commentReturning).ToSql()
}

func buildDeleteCommentQuery(commentID int64) (string, []any, error) {
	return psql.Delete("comments").Where(sq.Eq{"id": commentID}).ToSql()
}
